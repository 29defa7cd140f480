package group

import (
	"errors"
	"strings"
)

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MemberIDs   []int64 `json:"member_ids"`
}

// Validate trims the request and checks required fields
func (r *CreateGroupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Name) > 100 {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	UserID int64 `json:"user_id"`
}

// Validate checks required fields
func (r *AddMemberRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("user_id is required")
	}
	return nil
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ToResponse converts a Group and its members to a GroupResponse DTO
func (g *Group) ToResponse(members []*Member) *GroupResponse {
	resp := &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Members:     make([]*MemberResponse, len(members)),
	}
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
	}
	return resp
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID: m.UserID,
		Name:   m.Name,
		Email:  m.Email,
	}
}
