package models

import "time"

// ChannelAccount holds the YouTube channel this process publishes to.
// Tokens are stored AES-GCM encrypted.
type ChannelAccount struct {
	ID             int64     `db:"id" json:"id"`
	ChannelID      string    `db:"channel_id" json:"channel_id"`
	ChannelName    string    `db:"channel_name" json:"channel_name"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
