package services

import "ideahub/internal/models"

// Identity is the authenticated caller, resolved once per request and passed
// into every service call that needs to know who is acting.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   models.Role
}

func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == models.RoleAdmin
}

type Capability int

const (
	DeleteComment Capability = iota
	EditIdea
	EditBlog
	ViewPaidIdea
	ModerateIdeas
	ManageCategories
	ManageUsers
	ViewPayments
)

// Can reports whether id may exercise c on a resource owned by ownerID.
// ownerID is ignored for admin-only capabilities.
func Can(id *Identity, c Capability, ownerID string) bool {
	if id == nil || id.UserID == "" {
		return false
	}
	switch c {
	case DeleteComment, EditIdea, EditBlog, ViewPaidIdea:
		return id.IsAdmin() || (ownerID != "" && id.UserID == ownerID)
	case ModerateIdeas, ManageCategories, ManageUsers, ViewPayments:
		return id.IsAdmin()
	}
	return false
}
