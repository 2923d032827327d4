package service

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
	"github.com/SinghAman21/spendsplit/internal/storage"
)

// GroupService serves group CRUD, archival and membership endpoints.
type GroupService struct {
	store storage.Store
	cache *cache.Cache
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, c *cache.Cache) *GroupService {
	return &GroupService{store: store, cache: c}
}

// GroupResponse is the enriched group representation. Stat field names are
// camelCase because existing clients depend on them.
type GroupResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Type                 models.GroupType `json:"type"`
	MinFloor             float64          `json:"min_floor"`
	Archived             bool             `json:"archived"`
	CreatedAt            string           `json:"created_at"`
	TotalTransactions    int              `json:"totalTransactions"`
	ApprovedTransactions int              `json:"approvedTransactions"`
	PendingTransactions  int              `json:"pendingTransactions"`
	NetAmount            float64          `json:"netAmount"`
	MemberCount          int              `json:"memberCount"`
	LastActivity         *string          `json:"lastActivity"`
}

// UserResponse is the embedded user representation.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func toGroupResponse(g *storage.GroupWithStats) GroupResponse {
	resp := GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Type:      g.Type,
		MinFloor:  g.MinFloor.Float64(),
		Archived:  g.Archived,
		CreatedAt: isoTime(g.CreatedAt),
		// There is no approval workflow: every recorded expense counts as
		// approved and nothing is ever pending.
		TotalTransactions:    g.Stats.TotalTransactions,
		ApprovedTransactions: g.Stats.TotalTransactions,
		PendingTransactions:  0,
		NetAmount:            g.Stats.NetAmount.Float64(),
		MemberCount:          g.Stats.MemberCount,
	}
	if g.Stats.LastActivity > 0 {
		last := isoTime(g.Stats.LastActivity)
		resp.LastActivity = &last
	}
	return resp
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ListGroups handles GET /api/groups.
func (s *GroupService) ListGroups(c *gin.Context) {
	groups, err := s.store.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateGroupRequest is the POST /api/groups payload.
type CreateGroupRequest struct {
	Name     string   `json:"name" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	MinFloor *float64 `json:"min_floor"`
}

// CreateGroup handles POST /api/groups.
func (s *GroupService) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	group := &models.Group{
		Name:     req.Name,
		Type:     models.GroupType(req.Type),
		MinFloor: models.DefaultMinFloor,
	}
	if req.MinFloor != nil {
		group.MinFloor = money.FromFloat(*req.MinFloor)
	}

	if err := s.store.CreateGroup(c.Request.Context(), group); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "type", group.Type)

	created, err := s.store.GetGroup(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(created))
}

// GetGroup handles GET /api/groups/:id.
func (s *GroupService) GetGroup(c *gin.Context) {
	group, err := s.store.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(group))
}

// UpdateGroupRequest is the PUT /api/groups/:id payload. Absent fields keep
// their current value.
type UpdateGroupRequest struct {
	Name     *string  `json:"name"`
	Type     *string  `json:"type"`
	MinFloor *float64 `json:"min_floor"`
}

// UpdateGroup handles PUT /api/groups/:id.
func (s *GroupService) UpdateGroup(c *gin.Context) {
	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	existing, err := s.store.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	group := existing.Group
	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Type != nil {
		group.Type = models.GroupType(*req.Type)
	}
	if req.MinFloor != nil {
		group.MinFloor = money.FromFloat(*req.MinFloor)
	}

	if err := s.store.UpdateGroup(c.Request.Context(), &group); err != nil {
		respondError(c, err)
		return
	}

	s.cache.Delete(c.Request.Context(), analysisCacheKey(group.ID))

	updated, err := s.store.GetGroup(c.Request.Context(), group.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGroupResponse(updated))
}

// ArchiveGroup handles POST /api/groups/:id/archive.
func (s *GroupService) ArchiveGroup(c *gin.Context) {
	groupID := c.Param("id")
	if _, err := s.store.GetGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}
	if err := s.store.ArchiveGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Group archived", "group_id", groupID)
	c.JSON(http.StatusOK, gin.H{"archived": true})
}

// UnarchiveGroup handles DELETE /api/groups/:id/archive.
func (s *GroupService) UnarchiveGroup(c *gin.Context) {
	groupID := c.Param("id")
	if _, err := s.store.GetGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}
	if err := s.store.UnarchiveGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Group unarchived", "group_id", groupID)
	c.JSON(http.StatusOK, gin.H{"archived": false})
}

// ListMembers handles GET /api/groups/:id/members.
func (s *GroupService) ListMembers(c *gin.Context) {
	groupID := c.Param("id")
	if _, err := s.store.GetGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}

	members, err := s.store.ListGroupMembers(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, toUserResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

// AddMemberRequest is the POST /api/groups/:id/members payload.
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddMember handles POST /api/groups/:id/members. The 32-member cap is
// enforced atomically in storage.
func (s *GroupService) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	groupID := c.Param("id")
	if err := s.store.AddGroupMember(c.Request.Context(), groupID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	s.cache.Delete(c.Request.Context(), analysisCacheKey(groupID))
	slog.Info("Member joined group", "group_id", groupID, "user_id", req.UserID)
	c.JSON(http.StatusOK, gin.H{"joined": true})
}
