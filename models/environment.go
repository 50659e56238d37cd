package models

import "time"

type Environment struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Users []User `gorm:"foreignKey:EnvironmentId" json:"users,omitempty"`
}
