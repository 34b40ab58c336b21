package domain

import "github.com/google/uuid"

// NewID generates an opaque record identifier
func NewID() string {
	return uuid.NewString()
}
