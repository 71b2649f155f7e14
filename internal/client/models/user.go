// Package models defines client-side data models used by the Orbiter CLI.
package models

import "time"

// User is the public account view returned by the server.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the login state cached between CLI runs.
type Session struct {
	Username string
	Token    string
	SavedAt  time.Time
}

// Health is the server's health report.
type Health struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
