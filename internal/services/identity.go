package services

import (
	"telemed-app-server/internal/models"
)

// Identity is the authenticated caller as produced by the auth middleware.
type Identity struct {
	ID   string
	Role models.Role
}
