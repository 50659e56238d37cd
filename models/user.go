package models

import "time"

type User struct {
	ID            int        `gorm:"primary_key" json:"id"`
	FirstName     string     `gorm:"size:100" json:"first_name"`
	LastName      string     `gorm:"size:100" json:"last_name"`
	Email         string     `gorm:"index;size:255;not null" json:"email"`
	Username      string     `gorm:"index;size:100;not null" json:"username"`
	PasswordHash  string     `gorm:"size:255" json:"-"`
	ContactNumber string     `gorm:"size:20" json:"contact_number"`
	RoleId        *int       `gorm:"index" json:"role_id"`
	EnvironmentId *int       `gorm:"index" json:"environment_id"`
	IsDeleted     bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Role         *Role        `gorm:"foreignKey:RoleId" json:"role,omitempty"`
	Environment  *Environment `gorm:"foreignKey:EnvironmentId" json:"environment,omitempty"`
	CreatedForms []Form       `gorm:"foreignKey:UserId" json:"created_forms,omitempty"`
}

// IsSuperUser reports whether the user's role bypasses permission checks.
func (u *User) IsSuperUser() bool {
	return u != nil && u.Role != nil && u.Role.IsSuperUser
}

func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

func (u *User) EnvironmentID() int {
	if u == nil || u.EnvironmentId == nil {
		return 0
	}
	return *u.EnvironmentId
}
