package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"salon-backend/internal/calendar"
	"salon-backend/internal/repositories"
	"salon-backend/pkg/utils"
)

type CalendarHandler struct {
	Registry     *calendar.Registry
	Tracker      *calendar.Tracker
	BranchRepo   *repositories.BranchRepository
	AccountRepo  *repositories.AccountRepository
	CalendarRepo *repositories.BranchCalendarRepository
}

func NewCalendarHandler(
	registry *calendar.Registry,
	tracker *calendar.Tracker,
	branchRepo *repositories.BranchRepository,
	accountRepo *repositories.AccountRepository,
	calendarRepo *repositories.BranchCalendarRepository,
) *CalendarHandler {
	return &CalendarHandler{
		Registry:     registry,
		Tracker:      tracker,
		BranchRepo:   branchRepo,
		AccountRepo:  accountRepo,
		CalendarRepo: calendarRepo,
	}
}

// List returns the branch to calendar mappings
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.CalendarRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, mappings)
}

// Provision resolves (creating if needed) the calendar for a branch without
// waiting for the first booking
func (h *CalendarHandler) Provision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID int `json:"branch_id"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	branch, err := h.BranchRepo.Get(r.Context(), req.BranchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if branch == nil {
		utils.Error(w, http.StatusNotFound, "Branch not found")
		return
	}

	calendarID := h.Registry.GetOrCreateCalendar(r.Context(), branch.Name, branch.ID)
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"branch_id":   branch.ID,
		"calendar_id": calendarID,
		"fallback":    strings.HasPrefix(calendarID, "fallback-"),
	})
}

// Share grants calendar access to every account that should have it but is
// not yet flagged as shared
func (h *CalendarHandler) Share(w http.ResponseWriter, r *http.Request) {
	branchID, _ := strconv.Atoi(mux.Vars(r)["branch_id"])

	branch, err := h.BranchRepo.Get(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if branch == nil {
		utils.Error(w, http.StatusNotFound, "Branch not found")
		return
	}

	calendarID := h.Registry.GetOrCreateCalendar(r.Context(), branch.Name, branch.ID)
	result, err := h.Tracker.EnsureShared(r.Context(), calendarID, &branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// ResetShared clears the is_calendar_shared flag on every account, forcing
// the next sharing pass to re-grant access. Used after calendars are
// recreated or ACLs were edited by hand.
func (h *CalendarHandler) ResetShared(w http.ResponseWriter, r *http.Request) {
	affected, err := h.AccountRepo.ResetCalendarShared(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"reset_accounts": affected,
	})
}
