package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/repositories"
	"salon-backend/pkg/utils"
)

type AccountHandler struct {
	AccountRepo *repositories.AccountRepository
}

func NewAccountHandler(accountRepo *repositories.AccountRepository) *AccountHandler {
	return &AccountHandler{AccountRepo: accountRepo}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	account, err := h.AccountRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if account == nil {
		utils.Error(w, http.StatusNotFound, "Account not found")
		return
	}
	utils.JSON(w, http.StatusOK, account)
}
