package auth

import "golang.org/x/text/cases"

// Decision is the route guard's verdict for a request.
type Decision int

const (
	// Deny sends the caller to the redirect path.
	Deny Decision = iota
	// Allow renders the protected content.
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Evaluate decides whether user may see content that requires requiredRole.
// An empty requiredRole admits any authenticated user.
func Evaluate(user *User, requiredRole Role) Decision {
	if user == nil {
		return Deny
	}
	if requiredRole == "" || RolesMatch(user.Role, requiredRole) {
		return Allow
	}
	return Deny
}

// RolesMatch compares two roles using Unicode case folding.
func RolesMatch(a, b Role) bool {
	// A Caser must not be shared between goroutines.
	fold := cases.Fold()
	return fold.String(string(a)) == fold.String(string(b))
}
