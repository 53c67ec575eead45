package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID. Every primary key in the
// schema uses these so rows sort roughly by creation time.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
