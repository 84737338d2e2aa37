package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is the owning principal for every record in the system. The API
// layer resolves a bearer token to a user; all other code only ever sees
// the user id.
type User struct {
	ID        string
	Name      string
	Email     string
	APIToken  string
	CreatedAt time.Time
}

// Validate returns an error if the user is invalid
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: user email is required", ErrValidation)
	}
	return nil
}
