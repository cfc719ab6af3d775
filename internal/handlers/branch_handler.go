package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/cache"
	"salon-backend/internal/calendar"
	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
	"salon-backend/pkg/utils"
)

type BranchHandler struct {
	BranchRepo *repositories.BranchRepository
	Registry   *calendar.Registry
}

func NewBranchHandler(branchRepo *repositories.BranchRepository, registry *calendar.Registry) *BranchHandler {
	return &BranchHandler{BranchRepo: branchRepo, Registry: registry}
}

func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBranchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	branch := &models.Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		TimeZone: req.TimeZone,
		IsActive: true,
	}
	if err := h.BranchRepo.Create(r.Context(), branch); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateBranchCaches(r.Context())
	utils.JSON(w, http.StatusCreated, branch)
}

func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	branch, err := h.BranchRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if branch == nil {
		utils.Error(w, http.StatusNotFound, "Branch not found")
		return
	}
	utils.JSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.BranchRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, branches)
}

// Update edits a branch. A rename flows through to the branch's calendar
// title; the calendar id itself never changes.
func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateBranchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	branch, err := h.BranchRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if branch == nil {
		utils.Error(w, http.StatusNotFound, "Branch not found")
		return
	}

	renamed := req.Name != "" && req.Name != branch.Name
	if req.Name != "" {
		branch.Name = req.Name
	}
	if req.Address != "" {
		branch.Address = req.Address
	}
	if req.Phone != "" {
		branch.Phone = req.Phone
	}
	if req.TimeZone != "" {
		branch.TimeZone = req.TimeZone
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := h.BranchRepo.Update(r.Context(), branch); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateBranchCaches(r.Context())

	if renamed && h.Registry != nil {
		if err := h.Registry.RenameCalendar(r.Context(), branch.ID, branch.Name); err != nil {
			// The branch update already happened; calendar title lag is benign
			log.Printf("[BranchHandler] Calendar rename failed for branch %d: %v", branch.ID, err)
		}
	}
	utils.JSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.BranchRepo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateBranchCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
