package models

import "time"

type Role struct {
	ID          int        `gorm:"primary_key" json:"id"`
	Name        string     `gorm:"index;size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	IsSuperUser bool       `gorm:"not null;default:false" json:"is_super_user"`
	IsDeleted   bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Users           []User           `gorm:"foreignKey:RoleId" json:"users,omitempty"`
	RolePermissions []RolePermission `gorm:"foreignKey:RoleId" json:"role_permissions,omitempty"`
}
