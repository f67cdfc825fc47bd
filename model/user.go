package model

import "time"

type User struct {
	ID            string `gorm:"primaryKey" json:"id"`
	UserName      string `gorm:"uniqueIndex;not null" json:"userName"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	FullName      string `gorm:"not null" json:"fullName"`
	PasswordHash  string `gorm:"not null" json:"-"`
	AvatarURL     string `gorm:"not null" json:"avatar"`
	CoverImageURL string `json:"coverImage"`

	// Empty means no outstanding refresh token. Overwritten on every
	// login and refresh, cleared on logout.
	RefreshToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
