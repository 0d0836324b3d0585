package auth

// Package auth contains domain-level types for dashboard sessions and the route guard.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"strings"
)

// Role represents an application's authorization role.
// The backend issues roles with their own casing ("Admin", "User"); comparisons fold case.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
	RoleAny   Role = "Any"
)

// KnownRoles returns the roles the user-management screens allow assigning.
func KnownRoles() []Role { return []Role{RoleUser, RoleAny, RoleAdmin} }

// ParseRole returns the canonical form of a known role, matching case-insensitively.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range KnownRoles() {
		if RolesMatch(Role(s), r) {
			return r, true
		}
	}
	return "", false
}

// User is the profile payload the backend returns alongside the access token.
// Fields the dashboard does not know about are preserved in Extra so a stored
// profile round-trips unchanged.
type User struct {
	ID          string                     `json:"id"`
	DisplayName string                     `json:"displayName"`
	Email       string                     `json:"email"`
	Role        Role                       `json:"role"`
	Extra       map[string]json.RawMessage `json:"-"`
}

var userKnownFields = map[string]struct{}{
	"id": {}, "displayName": {}, "email": {}, "role": {},
}

// MarshalJSON writes the known fields plus any preserved extras.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["displayName"] = u.DisplayName
	out["email"] = u.Email
	out["role"] = u.Role
	return json.Marshal(out)
}

// UnmarshalJSON reads the known fields and keeps the rest in Extra.
// A numeric id is accepted and kept in its decimal form.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = User{}
	if v, ok := raw["id"]; ok {
		u.ID = decodeID(v)
	}
	if err := decodeString(raw, "displayName", &u.DisplayName); err != nil {
		return err
	}
	if err := decodeString(raw, "email", &u.Email); err != nil {
		return err
	}
	var role string
	if err := decodeString(raw, "role", &role); err != nil {
		return err
	}
	u.Role = Role(role)

	for k, v := range raw {
		if _, known := userKnownFields[k]; known {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[k] = v
	}
	return nil
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	return json.Unmarshal(v, dst)
}

func decodeID(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

// Session is the token+user pair representing an authenticated identity.
// A Session is only meaningful when both parts are present; see Complete.
type Session struct {
	Token string `json:"access_token"`
	User  *User  `json:"user"`
}

// Complete reports whether both the token and the user are set.
func (s Session) Complete() bool {
	return s.Token != "" && s.User != nil
}

// Clone returns a deep copy. The copy's User and its Extra map are not
// shared with s.
func (s Session) Clone() Session {
	if s.User == nil {
		return s
	}
	u := *s.User
	if u.Extra != nil {
		u.Extra = make(map[string]json.RawMessage, len(s.User.Extra))
		for k, v := range s.User.Extra {
			u.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return Session{Token: s.Token, User: &u}
}

// Credentials are what the login form submits.
type Credentials struct {
	Email    string
	Password string
}
