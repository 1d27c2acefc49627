package datastore

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nightjar-sec/nightjar/pkg/store"
	"github.com/nightjar-sec/nightjar/pkg/types"
)

// BlobReport is everything a scanner reports for one scanned blob:
// its content, where it came from, optional metadata guesses, and any
// rule matches discovered within it.
type BlobReport struct {
	Content     []byte
	Provenance  json.RawMessage // JSON object; required
	MimeEssence string          // optional, "" to skip
	Charset     string          // optional, "" to skip
	Matches     []*MatchReport
}

// MatchReport is one rule match within a blob.
type MatchReport struct {
	Rule     *types.Rule
	Location types.Location
	Groups   [][]byte
	Snippet  types.Snippet
}

// Record persists one blob report through the full upsert chain in
// dependency order: blob, metadata, provenance, span, rule, finding, match.
// Re-recording identical input is a no-op end to end.
func (d *Datastore) Record(report *BlobReport) (types.BlobID, error) {
	blobID := types.ComputeBlobID(report.Content)

	blob, err := d.Store.UpsertBlob(blobID, int64(len(report.Content)))
	if err != nil {
		return types.BlobID{}, fmt.Errorf("recording blob: %w", err)
	}

	if d.BlobFiles != nil {
		if _, err := d.BlobFiles.Store(report.Content); err != nil {
			return types.BlobID{}, err
		}
	}

	if report.MimeEssence != "" {
		if err := d.Store.SetBlobMimeEssence(blob, report.MimeEssence); err != nil {
			return types.BlobID{}, err
		}
	}
	if report.Charset != "" {
		if err := d.Store.SetBlobCharset(blob, report.Charset); err != nil {
			return types.BlobID{}, err
		}
	}

	if report.Provenance != nil {
		if err := d.Store.AddBlobProvenance(blob, report.Provenance); err != nil {
			return types.BlobID{}, err
		}
	}

	for _, m := range report.Matches {
		if err := d.recordMatch(blob, m); err != nil {
			return types.BlobID{}, err
		}
	}

	log.WithFields(log.Fields{
		"blob_id": blobID.Hex(),
		"matches": len(report.Matches),
	}).Debug("recorded blob report")

	return blobID, nil
}

// recordMatch persists one match: span first (matches have a hard
// referential dependency on spans), then rule, finding, match.
func (d *Datastore) recordMatch(blob *store.BlobRef, m *MatchReport) error {
	if err := d.Store.UpsertBlobSourceSpan(blob, m.Location); err != nil {
		return fmt.Errorf("recording span: %w", err)
	}

	rule, err := d.Store.UpsertRule(m.Rule)
	if err != nil {
		return fmt.Errorf("recording rule: %w", err)
	}

	finding, err := d.Store.UpsertFinding(rule, m.Groups)
	if err != nil {
		return fmt.Errorf("recording finding: %w", err)
	}

	if _, err := d.Store.UpsertMatch(finding, blob, m.Location.Offset, m.Snippet); err != nil {
		return fmt.Errorf("recording match: %w", err)
	}
	return nil
}

// RecordAll drains reports from a channel using the given number of
// concurrent workers, stopping on the first error or on context
// cancellation. Content-derived identities make concurrent upserts of
// overlapping data commutative, so no cross-worker coordination is needed.
func (d *Datastore) RecordAll(ctx context.Context, reports <-chan *BlobReport, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case report, ok := <-reports:
					if !ok {
						return nil
					}
					if _, err := d.Record(report); err != nil {
						return err
					}
				}
			}
		})
	}
	return g.Wait()
}
