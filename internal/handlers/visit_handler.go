package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"route-backend/internal/models"
	"route-backend/internal/services"

	"github.com/gorilla/mux"
)

type VisitHandler struct {
	Service *services.VisitService
}

func NewVisitHandler(service *services.VisitService) *VisitHandler {
	return &VisitHandler{Service: service}
}

func (h *VisitHandler) CreateVisit(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	var req models.CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	visit, err := h.Service.CreateVisit(r.Context(), customerID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(visit)
}

// UpdateVisit applies a partial update; absent fields keep their stored
// values.
func (h *VisitHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid visit ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	visit, err := h.Service.UpdateVisit(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visit)
}

func (h *VisitHandler) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid visit ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteVisit(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Visit deleted"})
}

func (h *VisitHandler) ListAllVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.Service.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visits)
}

func (h *VisitHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	visits, err := h.Service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visits)
}
