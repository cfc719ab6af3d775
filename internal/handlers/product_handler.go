package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/cache"
	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
	"salon-backend/internal/services"
	"salon-backend/pkg/utils"
)

// ProductHandler serves one stock-carrying product table; mounted once for
// OTC products and once for services products.
type ProductHandler struct {
	Repo      *repositories.ProductRepository
	Inventory *services.InventoryService
}

func NewProductHandler(repo *repositories.ProductRepository, inventory *services.InventoryService) *ProductHandler {
	return &ProductHandler{Repo: repo, Inventory: inventory}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity < 0 {
		utils.Error(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	item := &models.InventoryItem{
		Name:        req.Name,
		BranchID:    req.BranchID,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitValue:   req.UnitValue,
	}
	if err := h.Repo.Create(r.Context(), item); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusCreated, item)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	item, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID := optionalIntQuery(r, "branch_id")

	if r.URL.Query().Get("low_stock") == "true" {
		items, err := h.Repo.ListLowStock(r.Context(), branchID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, items)
		return
	}

	items, err := h.Repo.List(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

// Update edits a product. A quantity change goes through the inventory
// service so the movement lands in the usage ledger.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	item, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	var req models.UpdateProductRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	oldQuantity := item.Quantity
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}
	if req.UnitValue != nil {
		item.UnitValue = *req.UnitValue
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			utils.Error(w, http.StatusBadRequest, "quantity must not be negative")
			return
		}
		item.Quantity = *req.Quantity
	}

	if err := h.Repo.Update(r.Context(), item); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateProductCaches(r.Context())

	if req.Quantity != nil && *req.Quantity != oldQuantity {
		h.Inventory.ApplyQuantityChange(r.Context(), services.QuantityChange{
			ItemID:      item.ID,
			ItemType:    h.Repo.ItemType(),
			ItemName:    item.Name,
			BranchID:    item.BranchID,
			OldQuantity: oldQuantity,
			NewQuantity: item.Quantity,
			Reason:      models.ReasonManualUpdate,
		})
	}
	utils.JSON(w, http.StatusOK, item)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateUsedQuantity consumes stock for an item. 400 carries available vs
// requested so the till can show the shortfall.
func (h *ProductHandler) UpdateUsedQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateUsedQuantityRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Inventory.UpdateUsedQuantity(r.Context(), h.Repo.ItemType(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			utils.Error(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrInsufficientStock):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusOK, resp)
}

// History returns the recent usage ledger entries for an item plus its
// all-time movement totals
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.Inventory.History(r.Context(), h.Repo.ItemType(), id, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	used, added, err := h.Inventory.NetMovement(r.Context(), h.Repo.ItemType(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"entries":     entries,
		"total_used":  used,
		"total_added": added,
	})
}
