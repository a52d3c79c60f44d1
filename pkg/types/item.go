package types

// Item represents a named object held by exactly one user.
type Item struct {
	ID     int64  `json:"id"`      // Autoincrement, assigned on creation.
	UserID int64  `json:"user_id"` // Current owner.
	Name   string `json:"name"`
}
