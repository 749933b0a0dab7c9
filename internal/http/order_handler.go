package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
)

type OrderHandler struct {
	orders   OrderAPI
	payments PaymentAPI
}

func NewOrderHandler(orders OrderAPI, payments PaymentAPI) *OrderHandler {
	return &OrderHandler{orders: orders, payments: payments}
}

type CreateOrderRequestDTO struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	ImageURL  string `json:"imageUrl"`
	OrderType string `json:"orderType"`
}

type UpdateDraftRequestDTO struct {
	Items    []domain.OrderItem  `json:"items"`
	Shipping domain.ShippingInfo `json:"shipping"`
}

type CreateIntentRequestDTO struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type ConfirmPaymentRequestDTO struct {
	OrderID    string `json:"orderId"`
	PaymentRef string `json:"paymentId"`
}

func (h *OrderHandler) CreateFromCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerKeyFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no caller identity")
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Guest checkout is allowed; the user id is only attached when the
	// caller is authenticated.
	var userID string
	if identity, authed := identityFromContext(r.Context()); authed {
		userID = identity.SubjectID
	}

	shipping := domain.ShippingInfo{Name: req.Name, Address: req.Address, ImageURL: req.ImageURL}
	order, err := h.orders.CreateFromCart(r.Context(), owner, userID, shipping, domain.OrderType(req.OrderType))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Draft(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerKeyFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no caller identity")
		return
	}

	var userID string
	if identity, authed := identityFromContext(r.Context()); authed {
		userID = identity.SubjectID
	}

	order, err := h.orders.DraftForOwner(r.Context(), owner, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req UpdateDraftRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateDraft(r.Context(), chi.URLParam(r, "orderID"), req.Items, req.Shipping)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Latest(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerKeyFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no caller identity")
		return
	}

	order, err := h.orders.LatestForOwner(r.Context(), owner)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	intent, err := h.payments.CreateIntent(r.Context(), req.OrderID, req.Amount, req.Currency)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, intent)
}

func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.payments.ConfirmPayment(r.Context(), req.OrderID, req.PaymentRef)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
