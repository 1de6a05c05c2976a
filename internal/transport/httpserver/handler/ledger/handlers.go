package ledger

import (
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/pkg/logger"
)

type Handlers struct {
	Ledger *ledgerdomain.Service
	log    logger.Logger
}

func New(ledger *ledgerdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Ledger: ledger, log: log}
}
