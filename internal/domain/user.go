package domain

import "time"

// NotificationPrefs agrupa las preferencias de notificación del usuario.
type NotificationPrefs struct {
	PriceAlerts        bool `json:"priceAlerts"`
	PushNotifications  bool `json:"pushNotifications"`
	EmailNotifications bool `json:"emailNotifications"`
	SoundEnabled       bool `json:"soundEnabled"`
}

// PrivacyPrefs agrupa las preferencias de privacidad del usuario.
type PrivacyPrefs struct {
	Analytics         bool   `json:"analytics"`
	DataSharing       bool   `json:"dataSharing"`
	ProfileVisibility string `json:"profileVisibility"`
}

type User struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	Username      string            `json:"username"`
	PasswordHash  string            `json:"-"`
	Phone         string            `json:"phone"`
	Location      string            `json:"location"`
	Bio           string            `json:"bio"`
	Company       string            `json:"company"`
	Website       string            `json:"website"`
	Language      string            `json:"language"`
	Timezone      string            `json:"timezone"`
	Theme         string            `json:"theme"`
	Notifications NotificationPrefs `json:"notifications"`
	Privacy       PrivacyPrefs      `json:"privacy"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Valores permitidos para ProfileVisibility.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// DefaultNotifications devuelve las preferencias de notificación iniciales.
func DefaultNotifications() NotificationPrefs {
	return NotificationPrefs{
		PriceAlerts:        true,
		PushNotifications:  false,
		EmailNotifications: true,
		SoundEnabled:       true,
	}
}

// DefaultPrivacy devuelve las preferencias de privacidad iniciales.
func DefaultPrivacy() PrivacyPrefs {
	return PrivacyPrefs{
		Analytics:         true,
		DataSharing:       false,
		ProfileVisibility: VisibilityPrivate,
	}
}

// ValidVisibility indica si el valor de visibilidad es aceptado.
func ValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityFriends || v == VisibilityPrivate
}
