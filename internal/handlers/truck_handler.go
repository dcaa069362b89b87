package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"freight-backend/internal/models"
	"freight-backend/internal/services"
	"freight-backend/pkg/utils"
)

type TruckHandler struct {
	Service *services.TruckService
}

func NewTruckHandler(s *services.TruckService) *TruckHandler {
	return &TruckHandler{Service: s}
}

func (h *TruckHandler) CreateTruck(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	truck, err := h.Service.CreateTruck(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, truck)
}

func (h *TruckHandler) GetTruck(w http.ResponseWriter, r *http.Request) {
	truck, err := h.Service.GetTruck(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, truck)
}

func (h *TruckHandler) ListTrucks(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.Service.ListTrucks(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, trucks)
}

func (h *TruckHandler) UpdateTruck(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	truck, err := h.Service.UpdateTruck(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, truck)
}

// IncrementClaimCount bumps the truck's claim counter by one.
func (h *TruckHandler) IncrementClaimCount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Service.IncrementClaimCount(r.Context(), id); err != nil {
		utils.ServiceError(w, err)
		return
	}

	truck, err := h.Service.GetTruck(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, truck)
}

func (h *TruckHandler) DeleteTruck(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTruck(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
