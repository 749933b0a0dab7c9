package http

import (
	"net/http"
)

type AdminHandler struct {
	reports ReportingAPI
}

func NewAdminHandler(reports ReportingAPI) *AdminHandler {
	return &AdminHandler{reports: reports}
}

func (h *AdminHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("range")
	if window == "" {
		window = "weekly"
	}

	products, err := h.reports.TopProducts(r.Context(), window)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.reports.Dashboard(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dash)
}
