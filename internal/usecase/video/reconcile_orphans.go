package video

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fhuszti/video-studio-ms-go/internal/logger"
	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

type orphanReconcilerSrv struct {
	repo   port.TestimonialRepository
	strg   port.Storage
	bucket string
	grace  time.Duration
	now    func() time.Time
}

var _ port.OrphanReconciler = (*orphanReconcilerSrv)(nil)

// NewOrphanReconciler deletes committed-looking objects that no record
// references. Objects younger than grace are kept, since their commit may
// still be running.
func NewOrphanReconciler(repo port.TestimonialRepository, strg port.Storage, bucket string, grace time.Duration) port.OrphanReconciler {
	return &orphanReconcilerSrv{repo: repo, strg: strg, bucket: bucket, grace: grace, now: time.Now}
}

func (s *orphanReconcilerSrv) ReconcileOrphans(ctx context.Context) (port.ReconcileOutput, error) {
	var out port.ReconcileOutput

	// references first: an object uploaded after this point is inside the
	// grace period anyway
	urls, err := s.repo.ListVideoURLs(ctx)
	if err != nil {
		return out, fmt.Errorf("list video references: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		key, err := s.strg.ObjectKeyFromURL(s.bucket, u)
		if err != nil {
			var ok bool
			key, ok, err = keyFromPath(s.bucket, u)
			if err != nil {
				return out, fmt.Errorf("unreadable video reference %q: %w", u, err)
			}
			if !ok {
				continue
			}
			logger.Warnf(ctx, "⚠️  video reference %q is on another host; keeping %q", u, key)
		}
		referenced[key] = struct{}{}
	}

	files, err := s.strg.ListFiles(ctx, s.bucket, KeyPrefix)
	if err != nil {
		return out, fmt.Errorf("list objects: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	for _, f := range files {
		out.Scanned++
		if _, ok := referenced[f.Key]; ok {
			continue
		}
		if f.LastModified.After(cutoff) {
			continue
		}
		if err := s.strg.RemoveFile(ctx, s.bucket, f.Key); err != nil {
			out.Failed++
			logger.Warnf(ctx, "⚠️  could not remove orphan %q: %v", f.Key, err)
			continue
		}
		out.Removed++
		logger.Infof(ctx, "removed orphaned video %q", f.Key)
	}
	return out, nil
}

// keyFromPath matches a reference by its /<bucket>/testimonials/... path
// whatever its host, so objects served through a previous CDN stay referenced.
func keyFromPath(bucket, rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, err
	}
	marker := "/" + bucket + "/" + KeyPrefix
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return "", false, nil
	}
	return u.Path[i+len(bucket)+2:], true, nil
}
