package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VideoMetadata is written next to video_url on every successful commit.
type VideoMetadata struct {
	DurationSeconds float64   `json:"duration"`
	AspectRatio     string    `json:"aspectRatio"`
	EditedAt        time.Time `json:"editedAt"`
	OriginalURL     string    `json:"originalUrl"`
}

func (m VideoMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal VideoMetadata: %w", err)
	}
	return b, nil
}

func (m *VideoMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = VideoMetadata{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("VideoMetadata.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal VideoMetadata: %w", err)
	}
	return nil
}
