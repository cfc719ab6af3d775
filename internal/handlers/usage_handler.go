package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"salon-backend/internal/services"
	"salon-backend/pkg/utils"
)

// UsageHandler serves the inventory usage ledger query surface
type UsageHandler struct {
	Inventory *services.InventoryService
	Export    *services.ExportService
}

func NewUsageHandler(inventory *services.InventoryService, export *services.ExportService) *UsageHandler {
	return &UsageHandler{Inventory: inventory, Export: export}
}

// List serves GET /api/used-quantities. With item_type+item_id it returns
// entry history; with day it returns the daily aggregate; with
// transaction_id the entries of one ticket.
func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if txnID := q.Get("transaction_id"); txnID != "" {
		id, err := strconv.Atoi(txnID)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid transaction_id")
			return
		}
		entries, err := h.Inventory.TransactionEntries(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, entries)
		return
	}

	if day := q.Get("day"); day != "" {
		usage, err := h.Inventory.DailyUsage(r.Context(), day)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, usage)
		return
	}

	itemType := q.Get("item_type")
	itemID, err := strconv.Atoi(q.Get("item_id"))
	if err != nil || itemType == "" {
		utils.Error(w, http.StatusBadRequest, "item_type and item_id (or day, or transaction_id) are required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	entries, err := h.Inventory.History(r.Context(), itemType, itemID, limit)
	if err != nil {
		if errors.Is(err, services.ErrUnknownItemType) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

// LowStock lists items at or below their minimum quantity
func (h *UsageHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	branchID := optionalIntQuery(r, "branch_id")
	items, err := h.Inventory.LowStock(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

// ExportDaily uploads one day's usage aggregate to the export bucket
func (h *UsageHandler) ExportDaily(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day string `json:"day"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, count, err := h.Export.ExportDailyUsage(r.Context(), req.Day)
	if err != nil {
		if errors.Is(err, services.ErrExportDisabled) {
			utils.Error(w, http.StatusServiceUnavailable, "Export bucket is not configured")
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"object_key": key,
		"items":      count,
	})
}

// ListExports returns the keys of previously uploaded usage exports
func (h *UsageHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Export.ListExports(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrExportDisabled) {
			utils.Error(w, http.StatusServiceUnavailable, "Export bucket is not configured")
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, keys)
}
