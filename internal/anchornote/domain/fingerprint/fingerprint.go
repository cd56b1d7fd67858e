// Package fingerprint вычисляет детерминированный отпечаток содержимого заметки.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrMissingNoteID возвращается при попытке вычислить отпечаток заметки без идентификатора.
var ErrMissingNoteID = errors.New("note id must be assigned before fingerprinting")

// Digest - SHA-256 отпечаток заметки в виде 64-символьной hex-строки в нижнем регистре.
type Digest string

// String возвращает hex-представление отпечатка.
func (d Digest) String() string {
	return string(d)
}

// Bytes возвращает полезную нагрузку для отправки в реестр:
// ASCII-байты hex-представления отпечатка.
func (d Digest) Bytes() []byte {
	return []byte(d)
}

// Compute вычисляет отпечаток заметки по ее идентификатору, заголовку и содержимому.
// Вход кодируется как UTF-8 строка "<id>:<title>:<content>"; результат стабилен
// между перезапусками процесса и реализациями.
func Compute(noteID int64, title, content string) (Digest, error) {
	if noteID <= 0 {
		return "", fmt.Errorf("note %d: %w", noteID, ErrMissingNoteID)
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s:%s", noteID, title, content)))
	return Digest(hex.EncodeToString(sum[:])), nil
}
