package model

import (
	"strings"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	apperrors "github.com/target/attractions-admin/internal/errors"
)

// DashboardUser is a row of the user management grid as the backend returns it.
type DashboardUser struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     domainauth.Role `json:"role"`
	IsActive bool            `json:"isActive"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// BulkUserUpdate is the body of PATCH /users. Nil fields are left unchanged.
type BulkUserUpdate struct {
	IDs      []string         `json:"ids"`
	Role     *domainauth.Role `json:"role,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// EditRolesRequest changes the role of one or more users.
type EditRolesRequest struct {
	UserIDs []string `json:"userId"`
	Role    string   `json:"role"`
}

// UserSelectionRequest names the users an activate or delete action applies to.
type UserSelectionRequest struct {
	UserIDs []string `json:"userId"`
}

// Validate requires at least one user and a known role, normalizing the role's spelling.
func (r *EditRolesRequest) Validate() error {
	ids, err := cleanIDs(r.UserIDs)
	if err != nil {
		return err
	}
	r.UserIDs = ids

	if strings.TrimSpace(r.Role) == "" {
		return apperrors.ValidationField("role", "Role is required")
	}
	role, ok := domainauth.ParseRole(r.Role)
	if !ok {
		return apperrors.ValidationField("role", "Role must be one of User, Any, Admin")
	}
	r.Role = string(role)
	return nil
}

// Validate requires at least one non-blank user id.
func (r *UserSelectionRequest) Validate() error {
	ids, err := cleanIDs(r.UserIDs)
	if err != nil {
		return err
	}
	r.UserIDs = ids
	return nil
}

// ToBulkUpdate builds the backend payload for a role change.
func (r *EditRolesRequest) ToBulkUpdate() BulkUserUpdate {
	role := domainauth.Role(r.Role)
	return BulkUserUpdate{IDs: r.UserIDs, Role: &role}
}

// cleanIDs trims ids, drops blanks and duplicates, and fails when nothing is left.
func cleanIDs(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, apperrors.ValidationField("userId", "User id is required")
	}
	return out, nil
}
