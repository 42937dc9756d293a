package mariadb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/model"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
	"github.com/fhuszti/video-studio-ms-go/internal/usecase/video"
	"github.com/fhuszti/video-studio-ms-go/internal/uuid"
)

type TestimonialRepository struct {
	db *sql.DB
}

// compile-time check: *TestimonialRepository must satisfy port.TestimonialRepository
var _ port.TestimonialRepository = (*TestimonialRepository)(nil)

func NewTestimonialRepository(db *sql.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.Testimonial, error) {
	logger.Debugf(ctx, "fetching testimonial #%s from the database...", ID)

	const query = `
      SELECT id, space_id, type, content, video_url, video_metadata, respondent_name, created_at, updated_at
      FROM testimonials
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, ID)
	var t model.Testimonial
	if err := row.Scan(
		&t.ID, &t.SpaceID, &t.Type,
		&t.Content, &t.VideoURL, &t.VideoMetadata,
		&t.RespondentName,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &t, nil
}

// UpdateVideo is a compare-and-swap on video_url. The new URL always names a
// fresh object, so zero affected rows means the expected URL was replaced
// (or the record deleted) since the edit started.
func (r *TestimonialRepository) UpdateVideo(ctx context.Context, ID uuid.UUID, expectedURL, newURL string, meta model.VideoMetadata) error {
	logger.Infof(ctx, "switching video of testimonial #%s to %q...", ID, newURL)

	const query = `
      UPDATE testimonials
      SET
        video_url      = ?,
        video_metadata = ?,
        updated_at     = CURRENT_TIMESTAMP
      WHERE id = ? AND video_url <=> ?
    `
	res, err := r.db.ExecContext(ctx, query, newURL, meta, ID, nullableString(expectedURL))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return video.ErrVideoChanged
	}

	return nil
}

func (r *TestimonialRepository) ListVideoURLs(ctx context.Context) ([]string, error) {
	const query = `
      SELECT video_url
      FROM testimonials
      WHERE video_url IS NOT NULL AND video_url <> ''
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
