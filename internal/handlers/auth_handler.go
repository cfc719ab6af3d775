package handlers

import (
	"net/http"

	"salon-backend/internal/auth"
	"salon-backend/internal/middleware"
	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
	"salon-backend/pkg/utils"
)

type AuthHandler struct {
	AccountRepo *repositories.AccountRepository
	JWT         *auth.JWTManager
}

func NewAuthHandler(accountRepo *repositories.AccountRepository, jwt *auth.JWTManager) *AuthHandler {
	return &AuthHandler{AccountRepo: accountRepo, JWT: jwt}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.AccountRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if account == nil || !auth.VerifyPassword(account.PasswordHash, req.Password) {
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !account.IsActive {
		utils.Error(w, http.StatusForbidden, "Account suspended. Please contact administrator.")
		return
	}

	token, err := h.JWT.GenerateToken(account)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.JSON(w, http.StatusOK, loginResponse{Token: token, Account: account})
}

// Signup registers a staff account; admin-only in the router
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if !models.ValidRole(req.Role) {
		utils.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	account := &models.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		BranchID:     req.BranchID,
		IsActive:     true,
	}
	if err := h.AccountRepo.Create(r.Context(), account); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, account)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	account, err := h.AccountRepo.Get(r.Context(), id)
	if err != nil || account == nil {
		utils.Error(w, http.StatusNotFound, "Account not found")
		return
	}
	utils.JSON(w, http.StatusOK, account)
}
