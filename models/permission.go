package models

import "time"

type Permission struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;size:100;not null" json:"name"`
	Action      string    `gorm:"index;size:50;not null" json:"action"`
	Entity      string    `gorm:"index;size:100;not null" json:"entity"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	RolePermissions []RolePermission `gorm:"foreignKey:PermissionId" json:"role_permissions,omitempty"`
}
