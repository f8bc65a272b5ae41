package auth

import (
	"context"

	"github.com/splitpot/splitpot/internal/models"
)

// Authenticator is how the service layer proves who a caller is. The
// credential is opaque at this level: a password today, but the interface
// leaves room for passkeys or OAuth without touching the services.
type Authenticator interface {
	// Register creates an account for the email, returning the stored user.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate checks the credential against the account for email and
	// returns the user on success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential reports whether the credential is acceptable to
	// this implementation, before any account is touched.
	ValidateCredential(credential string) error
}
