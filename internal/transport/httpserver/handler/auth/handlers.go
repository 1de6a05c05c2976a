package auth

import (
	"errors"
	"net/http"
	"time"

	identitydomain "finance-tracker-go/internal/domain/identity"
	"finance-tracker-go/pkg/logger"
)

type Handlers struct {
	Identities *identitydomain.Service
	log        logger.Logger
}

func New(identities *identitydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Identities: identities, log: log}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, token, err := h.Identities.Register(r.Context(), identitydomain.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrEmailTaken):
			h.log.BusinessError("auth.register: email taken", err)
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
		case isRegisterValidationError(err):
			h.log.BusinessError("auth.register: validation failed", err)
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
		default:
			h.log.InternalError("auth.register: register failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, token, err := h.Identities.Login(r.Context(), identitydomain.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, identitydomain.ErrInvalidCredentials):
			h.log.BusinessError("auth.login: invalid credentials", err)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		case errors.Is(err, identitydomain.ErrInvalidEmail):
			h.log.BusinessError("auth.login: validation failed", err)
			writeError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
		default:
			h.log.InternalError("auth.login: login failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}

func toUserResponse(user *identitydomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func isRegisterValidationError(err error) bool {
	return errors.Is(err, identitydomain.ErrNameRequired) ||
		errors.Is(err, identitydomain.ErrInvalidEmail) ||
		errors.Is(err, identitydomain.ErrPasswordTooShort) ||
		errors.Is(err, identitydomain.ErrInvalidRole)
}
