package dto

import (
	"github.com/JobSiteOps/job_tracking_app/internal/core/domain"
)

// CreateUserRequest defines the data for registering a new user.
type CreateUserRequest struct {
	Username     string  `json:"username" binding:"required,min=3"`
	Password     string  `json:"password" binding:"required,min=8"`
	Name         string  `json:"name" binding:"required"`
	Role         string  `json:"role" binding:"required,oneof=OWNER ORG_ADMIN OFFICE_ADMIN DEPT_MANAGER MEMBER"`
	OrgID        string  `json:"orgId" binding:"required"`
	OfficeID     *string `json:"officeId"`
	DepartmentID *string `json:"departmentId"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name         *string `json:"name"`
	Role         *string `json:"role" binding:"omitempty,oneof=OWNER ORG_ADMIN OFFICE_ADMIN DEPT_MANAGER MEMBER"`
	OfficeID     *string `json:"officeId"`
	DepartmentID *string `json:"departmentId"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID       string  `json:"userID"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	OrgID        string  `json:"orgId"`
	OfficeID     *string `json:"officeId,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Name:         user.Name,
		Role:         string(user.Role),
		OrgID:        user.OrgID,
		OfficeID:     user.OfficeID,
		DepartmentID: user.DepartmentID,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
