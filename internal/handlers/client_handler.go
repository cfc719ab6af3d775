package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
	"salon-backend/pkg/utils"
)

type ClientHandler struct {
	ClientRepo *repositories.ClientRepository
}

func NewClientHandler(clientRepo *repositories.ClientRepository) *ClientHandler {
	return &ClientHandler{ClientRepo: clientRepo}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	client := &models.Client{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		BranchID: req.BranchID,
		Notes:    req.Notes,
	}
	if err := h.ClientRepo.Create(r.Context(), client); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	client, err := h.ClientRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if client == nil {
		utils.Error(w, http.StatusNotFound, "Client not found")
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		clients, err := h.ClientRepo.SearchByPhone(r.Context(), phone)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, clients)
		return
	}

	branchID := optionalIntQuery(r, "branch_id")
	clients, err := h.ClientRepo.List(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	client, err := h.ClientRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if client == nil {
		utils.Error(w, http.StatusNotFound, "Client not found")
		return
	}

	var req models.CreateClientRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != "" {
		client.Name = req.Name
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.BranchID != nil {
		client.BranchID = req.BranchID
	}
	if req.Notes != "" {
		client.Notes = req.Notes
	}

	if err := h.ClientRepo.Update(r.Context(), client); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.ClientRepo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// optionalIntQuery parses an optional integer query parameter
func optionalIntQuery(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
