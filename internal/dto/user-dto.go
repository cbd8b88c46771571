package dto

import "github.com/lnuais/member_service/internal/domain"

type UpdateUserProfile struct {
	FullName        *string `json:"full_name,omitempty"`
	Programme       *string `json:"programme,omitempty"`
	ExperienceLevel *string `json:"experience_level,omitempty"`
}

type UserListResponse struct {
	TotalItems  int64         `json:"totalItems"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Users       []domain.User `json:"users"`
}

// CurrentUserResponse is the flattened shape the portal frontend expects from
// /api/auth/current-user (name/program/level, not the storage field names).
type CurrentUserResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Picture  *string `json:"picture"`
	Program  *string `json:"program"`
	Level    *string `json:"level"`
	Verified bool    `json:"is_verified"`
}

func NewCurrentUserResponse(u *domain.User) CurrentUserResponse {
	return CurrentUserResponse{
		ID:       u.ID,
		Name:     u.FullName,
		Email:    u.Email,
		Picture:  u.Picture,
		Program:  u.Programme,
		Level:    u.ExperienceLevel,
		Verified: u.Verified,
	}
}
