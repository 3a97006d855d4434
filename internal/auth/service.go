package auth

import (
	"errors"
	"fmt"

	"github.com/Yu1chiro/elib-smantiara/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthDisabled       = errors.New("admin credentials not configured")
)

// Service validates the single configured administrative credential.
//
// The plaintext password from config is hashed once at construction so that
// login comparisons go through bcrypt and the plaintext is not retained.
type Service struct {
	username     string
	passwordHash string
}

// NewService creates an authentication service from the injected admin
// credential. Returns an error when the credential is incomplete.
func NewService(cfg config.Admin) (*Service, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, ErrAuthDisabled
	}

	hash, err := HashPassword(cfg.Password, bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &Service{
		username:     cfg.Username,
		passwordHash: hash,
	}, nil
}

// bcryptCost is the fixed cost factor for the admin credential hash. The hash
// lives only for the process lifetime, so the default cost is sufficient.
const bcryptCost = 10

// Authenticate validates a submitted username/password pair.
func (s *Service) Authenticate(username, password string) error {
	if username != s.username {
		// Equalize timing whether or not the username matched
		_ = CheckPassword(password, s.passwordHash)
		return ErrInvalidCredentials
	}

	if err := CheckPassword(password, s.passwordHash); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
