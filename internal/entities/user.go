package entities

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Whatsapp     string    `json:"whatsapp"`
	Segment      string    `json:"segment"`
	PasswordHash string    `json:"-"` // empty unless the owner set a dashboard password
	CreatedAt    time.Time `json:"created_at"`
}
