package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

// InsertTestimonial writes a testimonial row the way the owning service does.
func InsertTestimonial(t *testing.T, db *sql.DB, id, spaceID uuid.UUID, typ model.TestimonialType, videoURL *string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO testimonials (id, space_id, type, video_url, respondent_name) VALUES (?, ?, ?, ?, ?)`,
		id, spaceID, string(typ), videoURL, "Ada",
	)
	if err != nil {
		t.Fatalf("insert testimonial: %v", err)
	}
}
