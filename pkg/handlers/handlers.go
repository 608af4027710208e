package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/upright/escrow/pkg/api"
	"github.com/upright/escrow/pkg/auth"
	"github.com/upright/escrow/pkg/escrow"
	"github.com/upright/escrow/pkg/mapping"
	"github.com/upright/escrow/pkg/models"
	"github.com/upright/escrow/pkg/payments"
	"github.com/upright/escrow/pkg/storage"
)

// ApiHandler holds the application's dependencies behind the HTTP surface.
type ApiHandler struct {
	Engine   *escrow.Engine
	Auth     *auth.Service
	Payments payments.Processor
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(engine *escrow.Engine, authSvc *auth.Service, processor payments.Processor) *ApiHandler {
	return &ApiHandler{
		Engine:   engine,
		Auth:     authSvc,
		Payments: processor,
	}
}

// Routes mounts all endpoints on the router.
func (h *ApiHandler) Routes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	r.Post("/transactions", h.CreateTransaction)
	r.Get("/transactions", h.ListTransactions)
	r.Get("/transactions/{transactionId}", h.GetTransaction)
	r.Patch("/transactions/{transactionId}/status", h.UpdateTransactionStatus)
	r.Post("/transactions/{transactionId}/delivery", h.ConfirmDelivery)
}

// Signup handles registration of a new account.
func (h *ApiHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	user, err := h.Auth.Register(r.Context(), string(req.Email), req.Name, models.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			http.Error(w, "Email is already registered", http.StatusConflict)
		case errors.Is(err, auth.ErrInvalidEmail):
			http.Error(w, "A valid email address is required", http.StatusBadRequest)
		default:
			http.Error(w, fmt.Sprintf("Failed to register: %v", err), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, mapping.ToApiUser(user))
}

// Login handles opening a session for an existing account.
func (h *ApiHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	user, err := h.Auth.Login(r.Context(), string(req.Email))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			http.Error(w, "No account matches that email", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to log in: %v", err), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiUser(user))
}

// Logout clears the current session.
func (h *ApiHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to log out: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current session's account.
func (h *ApiHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, mapping.ToApiUser(actor))
}

// CreateTransaction funds and creates a new escrow transaction for the
// current buyer.
func (h *ApiHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var newTx api.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&newTx); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	// Fund the escrow before recording anything.
	if err := h.Payments.Process(r.Context(), newTx.Amount); err != nil {
		http.Error(w, fmt.Sprintf("Payment failed: %v", err), http.StatusBadGateway)
		return
	}

	tx, err := h.Engine.Create(r.Context(), mapping.ToDomainNewTransaction(&newTx), *actor)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// ListTransactions returns the current actor's transactions for a role side.
// The role query parameter defaults to the actor's own role.
func (h *ApiHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	role := models.UserRole(r.URL.Query().Get("role"))
	if role == "" {
		role = actor.Role
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		http.Error(w, "Role must be buyer or seller", http.StatusBadRequest)
		return
	}

	txs, err := h.Engine.ListByRole(r.Context(), *actor, role)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list transactions: %v", err), http.StatusInternalServerError)
		return
	}

	apiTxs := make([]*api.Transaction, len(txs))
	for i := range txs {
		apiTxs[i] = mapping.ToApiTransaction(&txs[i])
	}
	respondJSON(w, http.StatusOK, apiTxs)
}

// GetTransaction returns one transaction to one of its parties.
func (h *ApiHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	tx, err := h.Engine.Get(r.Context(), chi.URLParam(r, "transactionId"), *actor)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// UpdateTransactionStatus applies a lifecycle transition on behalf of the
// current actor.
func (h *ApiHandler) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var update api.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := h.Engine.Transition(r.Context(), chi.URLParam(r, "transactionId"), models.TransactionStatus(update.Status), *actor)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// ConfirmDelivery is the buyer's completion action.
func (h *ApiHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	tx, err := h.Engine.ConfirmDelivery(r.Context(), chi.URLParam(r, "transactionId"), *actor)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// requireActor resolves the current session or writes a 401.
func (h *ApiHandler) requireActor(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	actor, err := h.Auth.CurrentActor(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNoSession) {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
		} else {
			http.Error(w, fmt.Sprintf("Failed to resolve session: %v", err), http.StatusInternalServerError)
		}
		return nil, false
	}
	return actor, true
}

// respondEngineError translates the lifecycle error taxonomy to HTTP statuses.
func (h *ApiHandler) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, escrow.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, escrow.ErrNotFound):
		http.Error(w, "Transaction not found", http.StatusNotFound)
	case errors.Is(err, escrow.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, fmt.Sprintf("Operation failed: %v", err), http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
