// Package entities defines the domain entities for the anchornote service.
package entities

import "time"

// Note представляет собой заметку пользователя.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a new note with the given title and content.
func NewNote(title, content string) *Note {
	now := time.Now()
	return &Note{
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
