// Package replay streams a processed-features CSV through the detection
// service, one window per interval, standing in for live traffic capture.
package replay

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/service"
)

type Runner struct {
	svc      *service.DetectionService
	path     string
	interval time.Duration
}

func New(svc *service.DetectionService, path string, interval time.Duration) *Runner {
	return &Runner{svc: svc, path: path, interval: interval}
}

// Run replays every row of the CSV as one FeatureWindow. The first row is the
// header naming the features. Cancellation is honored between windows, never
// mid-window, so no partial result is ever persisted. Per-window failures are
// logged and skipped; only a broken file stops the run.
func (r *Runner) Run(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("replay source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are skipped, not fatal
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("replay source has no header row: %w", err)
	}

	runID := uuid.NewString()
	log.Printf("🚦 Starting traffic replay %s (%d features per window, one window every %s)", runID, len(header), r.interval)

	windows := 0
	for {
		if err := ctx.Err(); err != nil {
			log.Printf("replay %s cancelled after %d windows", runID, windows)
			return err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("replay source row %d: %w", windows+1, err)
		}

		window, err := parseWindow(header, record)
		if err != nil {
			log.Printf("⚠️ Skipping window %d: %v", windows+1, err)
			continue
		}

		result, perr := r.svc.Process(ctx, window)
		windows++

		if result != nil {
			if result.IsIntrusion {
				log.Printf("🚨 INTRUSION DETECTED | ml=%.4f rule=%.3f final=%.4f severity=%s rules=%v",
					result.MLScore, result.RuleScore, result.FinalScore, result.Severity, result.RuleIDs())
			} else {
				log.Printf("✔ Normal traffic | score=%.4f", result.FinalScore)
			}
		}
		if perr != nil {
			// Missing feature or storage failure: this window only.
			log.Printf("⚠️ Window %d: %v", windows, perr)
		}

		select {
		case <-ctx.Done():
			log.Printf("replay %s cancelled after %d windows", runID, windows)
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}

	log.Printf("✅ Replay %s complete: %d windows evaluated", runID, windows)
	return nil
}

func parseWindow(header, record []string) (core.FeatureWindow, error) {
	if len(record) != len(header) {
		return nil, fmt.Errorf("row has %d values, header has %d", len(record), len(header))
	}
	window := make(core.FeatureWindow, len(header))
	for i, name := range header {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		window[name] = v
	}
	return window, nil
}
