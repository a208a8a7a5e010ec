package domain

// Identity is the authenticated identity delivered by the auth provider.
// A nil *Identity means the visitor is anonymous.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
