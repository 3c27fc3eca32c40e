package domain

import (
	"database/sql"
	"time"
)

// User represents a user of the application in the domain. The role/org/office/
// department fields are the user's profile for scoping purposes.
type User struct {
	UserID       string  `json:"userID"` // Primary Key (e.g., UUID)
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	OrgID        string  `json:"orgId"`
	OfficeID     *string `json:"officeId,omitempty"`     // Nil for OWNER/ORG_ADMIN if not scoped
	DepartmentID *string `json:"departmentId,omitempty"` // Nil if not scoped
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete

	// Refresh Token Fields
	RefreshTokenHash       sql.NullString `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `json:"-" db:"refresh_token_expiry_time"`
}

// Viewer builds the explicit scoping value used by every job read and write.
func (u User) Viewer() ViewerContext {
	v := ViewerContext{
		UserID: u.UserID,
		Role:   u.Role,
		OrgID:  u.OrgID,
	}
	if u.OfficeID != nil {
		v.OfficeID = *u.OfficeID
	}
	if u.DepartmentID != nil {
		v.DepartmentID = *u.DepartmentID
	}
	return v
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
