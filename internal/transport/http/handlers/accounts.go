package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/domain"
	"github.com/islamipic/api/internal/logger"
	"github.com/islamipic/api/internal/transport/http/dto"
	"github.com/islamipic/api/internal/transport/http/middleware"
	"github.com/islamipic/api/internal/transport/http/response"
)

type AccountHandler struct {
	svc *auth.Service
}

func NewAccountHandler(svc *auth.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	response.OK(w, dto.FromAccount(acct))
}

func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), auth.UpdateProfileInput{
		ID:    acct.ID,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromAccount(updated))
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.PasswordChangeRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	err := h.svc.ChangePassword(r.Context(), auth.ChangePasswordInput{
		ID:          acct.ID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StatusResponse{Status: "ok"})
}

// ---- super-admin account administration ----

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	if role := r.URL.Query().Get("role"); role != "" {
		accounts, err := h.svc.ListByRole(r.Context(), role)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}
		response.OK(w, dto.FromAccounts(accounts))
		return
	}

	accounts, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromAccounts(accounts))
}

func (h *AccountHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListPending(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromAccounts(accounts))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acct, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.FromAccount(acct))
}

// Approve verifies a pending staff account from the dashboard's pending list.
func (h *AccountHandler) Approve(w http.ResponseWriter, r *http.Request) {
	acct, err := h.svc.ApproveByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("account_id", acct.ID).
		Msg("staff_approved")

	response.OK(w, dto.FromAccount(acct))
}

func (h *AccountHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeRoleRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	acct, err := h.svc.ChangeRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("account_id", acct.ID).
		Str("role", acct.Role).
		Msg("role_changed")

	response.OK(w, dto.FromAccount(acct))
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.NoContent(w)
}
