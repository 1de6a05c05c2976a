package handler

import (
	"net/http"

	identitydomain "finance-tracker-go/internal/domain/identity"
	ledgerdomain "finance-tracker-go/internal/domain/ledger"
	reportdomain "finance-tracker-go/internal/domain/report"
	authhandler "finance-tracker-go/internal/transport/httpserver/handler/auth"
	ledgerhandler "finance-tracker-go/internal/transport/httpserver/handler/ledger"
	reportshandler "finance-tracker-go/internal/transport/httpserver/handler/reports"
	"finance-tracker-go/pkg/logger"
)

type Handlers struct {
	Auth    *authhandler.Handlers
	Ledger  *ledgerhandler.Handlers
	Reports *reportshandler.Handlers
}

func New(identities *identitydomain.Service, ledger *ledgerdomain.Service, reports *reportdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:    authhandler.New(identities, log),
		Ledger:  ledgerhandler.New(ledger, log),
		Reports: reportshandler.New(reports, log),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
