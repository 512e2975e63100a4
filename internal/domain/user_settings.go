package domain

import "time"

// UserSettings holds per-user display preferences. The anchor timezone used
// for day keys is a server-wide setting; Timezone here only affects how the
// client renders instants.
type UserSettings struct {
	UserID string `json:"user_id"`

	Theme    string `json:"theme"`              // system, light, dark
	Timezone string `json:"timezone,omitempty"` // IANA name, display only

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserSettings creates settings with sensible defaults.
func NewUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:    userID,
		Theme:     "system",
		UpdatedAt: time.Now(),
	}
}
