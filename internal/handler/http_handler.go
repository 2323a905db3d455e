package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/roomloop/roomloop/internal/repository"
	"github.com/roomloop/roomloop/pkg/log"
	"github.com/roomloop/roomloop/pkg/response"
)

// HTTPHandler serves the read-only reporting endpoints. These are plain store
// queries and never touch live connection state.
type HTTPHandler struct {
	users repository.UserRepository
	rooms repository.RoomRepository
}

func NewHTTPHandler(users repository.UserRepository, rooms repository.RoomRepository) *HTTPHandler {
	return &HTTPHandler{
		users: users,
		rooms: rooms,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/rooms", h.ListRooms)
		api.GET("/users", h.ListUsers)
	}

	r.GET("/health", h.HealthCheck)
}

// ListRooms returns every room with its full message history embedded.
func (h *HTTPHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListWithMessages(c.Request.Context())
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("failed to list rooms")
		response.InternalError(c, "failed to list rooms")
		return
	}

	response.Success(c, rooms)
}

// ListUsers returns every user record.
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("failed to list users")
		response.InternalError(c, "failed to list users")
		return
	}

	response.Success(c, users)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
