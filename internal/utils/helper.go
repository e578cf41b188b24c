package utils

import "github.com/google/uuid"

// NewID returns a fresh random identifier for tables and sessions.
func NewID() string {
	return uuid.NewString()
}

func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
