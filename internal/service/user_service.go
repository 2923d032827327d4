package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/storage"
)

// UserService serves user listing. Users are created through the identity
// provider flow or seeding, never through this API.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// ListUsers handles GET /api/users.
func (s *UserService) ListUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}
