package dto

type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Programme       string `json:"programme"`
	ExperienceLevel string `json:"experience_level"`
	// Optional: the primary signup page registers without a password and the
	// account picks one up via the reset flow, but clients may supply one.
	Password string `json:"password,omitempty"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}
