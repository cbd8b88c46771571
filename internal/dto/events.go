package dto

// Mail event kinds published to the mail topic. The mail worker picks the
// template from the kind.
const (
	EventWelcome       = "user.welcome"
	EventVerifyEmail   = "user.verify_email"
	EventResetPassword = "user.reset_password"
)

type MailEvent struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Code      string `json:"code,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}
