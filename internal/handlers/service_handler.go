package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
	"salon-backend/pkg/utils"
)

type ServiceHandler struct {
	ServiceRepo *repositories.ServiceRepository
}

func NewServiceHandler(serviceRepo *repositories.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{ServiceRepo: serviceRepo}
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price < 0 {
		utils.Error(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	svc := &models.Service{
		Name:            req.Name,
		BranchID:        req.BranchID,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	if err := h.ServiceRepo.Create(r.Context(), svc); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, svc)
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	svc, err := h.ServiceRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if svc == nil {
		utils.Error(w, http.StatusNotFound, "Service not found")
		return
	}
	utils.JSON(w, http.StatusOK, svc)
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID := optionalIntQuery(r, "branch_id")
	services, err := h.ServiceRepo.List(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, services)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	svc, err := h.ServiceRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if svc == nil {
		utils.Error(w, http.StatusNotFound, "Service not found")
		return
	}

	var req struct {
		Name            *string  `json:"name"`
		Price           *float64 `json:"price"`
		DurationMinutes *int     `json:"duration_minutes"`
		IsActive        *bool    `json:"is_active"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.ServiceRepo.Update(r.Context(), svc); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, svc)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.ServiceRepo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
