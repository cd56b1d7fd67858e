package entities

import "time"

// AnchorRecord связывает заметку с транзакцией реестра и отпечатком на момент якорения.
// Запись создается один раз после успешной отправки и больше не изменяется.
type AnchorRecord struct {
	NoteID      int64     `json:"note_id"`
	Reference   string    `json:"reference"`
	BlockMarker *int64    `json:"block_marker,omitempty"`
	Digest      string    `json:"digest"`
	CreatedAt   time.Time `json:"created_at"`
}
