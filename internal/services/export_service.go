package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"salon-backend/internal/models"
	"salon-backend/internal/timeutil"
)

// ErrExportDisabled is returned when no export bucket is configured
var ErrExportDisabled = errors.New("export bucket not configured")

// ObjectStore is the bucket surface exports are written to
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// ExportService uploads daily inventory-usage aggregates to the export
// bucket as JSON snapshots, one object per day.
type ExportService struct {
	ledger LedgerStore
	bucket ObjectStore
}

func NewExportService(ledger LedgerStore, bucket ObjectStore) *ExportService {
	return &ExportService{ledger: ledger, bucket: bucket}
}

// Enabled reports whether a bucket is wired
func (s *ExportService) Enabled() bool {
	return s.bucket != nil
}

// ExportDailyUsage aggregates the ledger for one day (YYYY-MM-DD; empty
// means yesterday) and uploads it to usage/<day>.json. Returns the object
// key and the number of aggregated items.
func (s *ExportService) ExportDailyUsage(ctx context.Context, day string) (string, int, error) {
	if s.bucket == nil {
		return "", 0, ErrExportDisabled
	}
	if day == "" {
		day = timeutil.Now().AddDate(0, 0, -1).Format("2006-01-02")
	}

	usage, err := s.ledger.DailyAggregate(ctx, day)
	if err != nil {
		return "", 0, fmt.Errorf("failed to aggregate usage for %s: %w", day, err)
	}

	payload, err := json.MarshalIndent(struct {
		Day   string               `json:"day"`
		Items []*models.DailyUsage `json:"items"`
	}{Day: day, Items: usage}, "", "  ")
	if err != nil {
		return "", 0, err
	}

	key := fmt.Sprintf("usage/%s.json", day)
	if err := s.bucket.Put(ctx, key, "application/json", payload); err != nil {
		return "", 0, err
	}

	log.Printf("[Export] Uploaded %s (%d items)", key, len(usage))
	return key, len(usage), nil
}

// ListExports returns the object keys of past usage exports
func (s *ExportService) ListExports(ctx context.Context) ([]string, error) {
	if s.bucket == nil {
		return nil, ErrExportDisabled
	}
	return s.bucket.List(ctx, "usage/")
}
