package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/fitcrm/internal/domain"
	"alcyxob/fitcrm/internal/service"
	"alcyxob/fitcrm/internal/validation"
)

// Message shown when a record referenced by id is gone, e.g. deleted
// from another open tab.
const msgClientNotFound = "Client not found (maybe deleted)."

// ClientHandler holds the client service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ClientRequest defines the expected JSON for creating or updating a
// client. Field rules are enforced by the core validator so the exact
// user-facing message comes back, not a binding error.
type ClientRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Goal      string `json:"goal"`
	StartDate string `json:"startDate"`
	History   string `json:"history"`
}

// ClientResponse is the DTO for returning client details.
type ClientResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Goal      string     `json:"goal"`
	StartDate string     `json:"startDate"`
	History   string     `json:"history,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// MapClientToResponse converts a domain.Client to ClientResponse DTO.
func MapClientToResponse(client *domain.Client) ClientResponse {
	if client == nil {
		return ClientResponse{}
	}
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Goal:      client.Goal,
		StartDate: client.StartDate,
		History:   client.History,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// MapClientsToResponse converts a slice of domain.Client to response DTOs.
func MapClientsToResponse(clients []domain.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i, client := range clients {
		responses[i] = MapClientToResponse(&client)
	}
	return responses
}

func (r ClientRequest) toInput() service.ClientInput {
	return service.ClientInput{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Goal:      r.Goal,
		StartDate: r.StartDate,
		History:   r.History,
	}
}

// --- Handler Methods ---

// ListClients returns the full collection in insertion order, or the
// name-filtered subset when a "q" query parameter is present.
func (h *ClientHandler) ListClients(c *gin.Context) {
	query, filtered := c.GetQuery("q")

	var clients []domain.Client
	if filtered {
		clients = h.clientService.Search(c.Request.Context(), query)
	} else {
		clients = h.clientService.ListAll(c.Request.Context())
	}

	c.JSON(http.StatusOK, MapClientsToResponse(clients))
}

// CreateClient adds a new client record.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		var vErr validation.Error
		if errors.As(err, &vErr) {
			abortWithError(c, http.StatusBadRequest, vErr.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save client.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// GetClient returns one client by id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, msgClientNotFound)
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// UpdateClient replaces the editable fields of an existing client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		var vErr validation.Error
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, msgClientNotFound)
		case errors.As(err, &vErr):
			abortWithError(c, http.StatusBadRequest, vErr.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// DeleteClient removes a client. Deleting an unknown id still succeeds;
// the confirmation step lives at the view boundary, not here.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to delete client.")
		return
	}
	c.Status(http.StatusNoContent)
}
