package models

// AppSettings is the singleton user-preference record. The store guarantees
// at most one live row; it is created at bootstrap and updated in place.
type AppSettings struct {
	Volume               float64 `json:"volume"`                        // 0.0 to 1.0
	NotificationTime     string  `json:"notification_time"`             // HH:MM
	Theme                string  `json:"theme"`                         // "auto", "light", "dark"
	Language             string  `json:"language"`                      // BCP 47 language tag
	SoundEnabled         bool    `json:"sound_enabled"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	FirstLaunch          bool    `json:"first_launch"`
}
