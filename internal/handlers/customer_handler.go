package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"route-backend/internal/services"

	"github.com/gorilla/mux"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: service}
}

// ListCustomers returns customers filtered by week, day and account number
// query parameters, each with its latest visit attached.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	weekNumber := 0
	if raw := r.URL.Query().Get("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 4 {
			http.Error(w, "week must be a number between 1 and 4", http.StatusBadRequest)
			return
		}
		weekNumber = n
	}

	customers, err := h.Service.List(r.Context(), weekNumber, r.URL.Query().Get("day"), r.URL.Query().Get("account"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customers)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	customer, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Customer deleted"})
}

// GetWeekStats returns per-week customer and visit rollups.
func (h *CustomerHandler) GetWeekStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.WeekStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
