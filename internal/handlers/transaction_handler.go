package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/cache"
	"salon-backend/internal/models"
	"salon-backend/internal/services"
	"salon-backend/pkg/utils"
)

type TransactionHandler struct {
	Service *services.TransactionService
	Receipt *services.ReceiptService
}

func NewTransactionHandler(s *services.TransactionService, receipt *services.ReceiptService) *TransactionHandler {
	return &TransactionHandler{Service: s, Receipt: receipt}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTransaction),
			errors.Is(err, services.ErrInsufficientStock),
			errors.Is(err, services.ErrUnknownItemType):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrItemNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusCreated, ticket)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	ticket, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ticket == nil {
		utils.Error(w, http.StatusNotFound, "Transaction not found")
		return
	}
	utils.JSON(w, http.StatusOK, ticket)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID := optionalIntQuery(r, "branch_id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tickets, err := h.Service.List(r.Context(), branchID, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, tickets)
}

func (h *TransactionHandler) Void(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.VoidTransactionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := h.Service.Void(r.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrAlreadyVoided):
			utils.Error(w, http.StatusConflict, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusOK, ticket)
}

// DownloadReceipt streams the ticket's PDF receipt
func (h *TransactionHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	pdf, err := h.Receipt.Generate(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, id))
	w.Write(pdf)
}
