package model

import (
	"fmt"
	"time"
)

// LocalDocument is a text document kept only on this device.
type LocalDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// LocalDocumentUpdate is a partial update. Size is recomputed only when Content is set.
type LocalDocumentUpdate struct {
	Name     *string
	Content  *string
	Category *string
}

// FormatSize renders a content length as kilobytes with one decimal, e.g. "2.0 KB".
func FormatSize(length int) string {
	return fmt.Sprintf("%.1f KB", float64(length)/1024)
}

// LocalSlot is a named durable slot holding one serialized value.
// Read returns nil data when the slot has never been written.
type LocalSlot interface {
	Read() ([]byte, error)
	Write(data []byte) error
}
