package models

import "time"

type TokenBlocklist struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Jti       string    `gorm:"index;size:64;not null" json:"jti"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TokenBlocklist) TableName() string { return "token_blocklist" }
