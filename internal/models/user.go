package models

import "time"

// User is a registered player. Users are created once and never updated;
// the display name is unique across the service.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
