// Package models holds the records persisted by the server repositories.
package models

import "time"

type User struct {
	ID           string
	UserName     string
	PasswordHash string
	IsPremium    bool
	CreatedAt    time.Time
}
