// Package auth resolves the credential presented with a request to a user.
// Three interchangeable strategies exist; a deployment picks exactly one.
package auth

import (
	"ctchen222/todo-api/internal/api/models"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("auth")

// ErrUnauthenticated means the request carries no valid credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// Strategy authenticates requests and establishes credentials on login.
type Strategy interface {
	Name() string
	// Authenticate returns ErrUnauthenticated when the credential is missing
	// or invalid; any other error is an infrastructure failure.
	Authenticate(r *http.Request) (*models.User, error)
	// Login establishes a credential for an already verified user. The
	// returned token is echoed in the response body; it is empty when the
	// credential travels another way (a cookie).
	Login(w http.ResponseWriter, r *http.Request, user *models.User) (string, error)
}

// Revoker is implemented by strategies whose credentials can be invalidated
// by the client.
type Revoker interface {
	Logout(w http.ResponseWriter, r *http.Request) error
}

// RegistrationIssuer is implemented by strategies that hand out the
// credential at registration time instead of at login.
type RegistrationIssuer interface {
	NewRegistrationToken() (string, error)
}
