package ports_test

import (
	"testing"

	"github.com/target/attractions-admin/internal/mocks"
	authmocks "github.com/target/attractions-admin/internal/mocks/auth"
	"github.com/target/attractions-admin/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionStore = (*authmocks.MemorySessionStore)(nil)
	var _ ports.Authenticator = (*authmocks.StubAuthenticator)(nil)
	var _ ports.SessionStore = (*mocks.MockSessionStore)(nil)
	var _ ports.Authenticator = (*mocks.MockAuthenticator)(nil)
	var _ ports.UserBackend = (*mocks.MockUserBackend)(nil)
	var _ ports.AttractionBackend = (*mocks.MockAttractionBackend)(nil)
}
