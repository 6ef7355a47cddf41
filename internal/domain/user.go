package domain

import (
	"errors"
	"strings"
	"time"
)

// DefaultNickname is assigned to users created on first sight of an
// external subject.
const DefaultNickname = "Anonymous"

// User is an internal user record, keyed by the external identity
// subject. At most one user exists per subject.
type User struct {
	ID        string
	Nickname  string
	Sub       string
	CreatedOn time.Time
	UpdatedOn time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id is required")
	}
	if strings.TrimSpace(u.Sub) == "" {
		return errors.New("user sub is required")
	}
	return nil
}
