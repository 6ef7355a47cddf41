package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Parcour is a named course definition owned by a user. Data is the
// free-form course document and is stored opaquely.
type Parcour struct {
	ID           string
	Name         string
	Data         json.RawMessage
	UserID       string
	UserNickname string
	CreatedOn    time.Time
	UpdatedOn    time.Time
}

func (p Parcour) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("parcour id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("parcour name is required")
	}
	return nil
}
