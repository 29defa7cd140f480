package settlement

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/settleup/pkg/request"
	"github.com/fkhayef/settleup/pkg/response"
)

// Handler handles HTTP requests for balance operations
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetAll)
	r.Get("/groups/{groupId}", h.GetGroup)
	r.Get("/users/{userId}", h.GetUser)

	return r
}

// GetAll handles GET /balances
// @Summary      System-wide balances
// @Description  Net balance of every user across all groups and the payments that settle them
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=SystemBalanceResponse}
// @Failure      500 {object} response.APIResponse
// @Router       /balances [get]
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.AllBalances(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balances.ToResponse())
}

// GetGroup handles GET /balances/groups/{groupId}
// @Summary      Group balances
// @Description  Balances of a group, the transactions that settle them and the system-wide smart transactions
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/groups/{groupId} [get]
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := request.ID(w, r, "groupId", "group")
	if !ok {
		return
	}

	balance, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute group balances")
		return
	}

	response.JSON(w, http.StatusOK, balance.ToResponse())
}

// GetUser handles GET /balances/users/{userId}
// @Summary      User balances
// @Description  Balances of every group in which the user has a balance entry, keyed by group id
// @Tags         balances
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=UserBalancesResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/users/{userId} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.ID(w, r, "userId", "user")
	if !ok {
		return
	}

	balances, err := h.service.UserBalances(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute user balances")
		return
	}

	response.JSON(w, http.StatusOK, balances.ToResponse())
}
