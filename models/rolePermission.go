package models

import "time"

type RolePermission struct {
	ID           int       `gorm:"primary_key" json:"id"`
	RoleId       int       `gorm:"index;not null" json:"role_id"`
	PermissionId int       `gorm:"index;not null" json:"permission_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Role       *Role       `gorm:"foreignKey:RoleId" json:"role,omitempty"`
	Permission *Permission `gorm:"foreignKey:PermissionId" json:"permission,omitempty"`
}
