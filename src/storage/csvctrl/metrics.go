package csvctrl

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"faqrag/src/core/faq"
)

// header order is part of the recorder's external contract.
var header = []string{
	"timestamp",
	"latency_ms",
	"tokens_prompt",
	"tokens_completion",
	"tokens_total",
	"estimated_cost_usd",
}

const timestampLayout = "2006-01-02 15:04:05"

// MetricsRecorder appends request metrics to a CSV file. Rows are never
// overwritten or reordered; a mutex serializes concurrent appends so
// interleaved requests cannot corrupt partial rows.
type MetricsRecorder struct {
	mu   sync.Mutex
	path string
}

func NewMetricsRecorder(path string) *MetricsRecorder {
	return &MetricsRecorder{path: path}
}

// Record appends one row, writing the header first if the file is new.
func (r *MetricsRecorder) Record(ctx context.Context, m faq.RequestMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open metrics file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat metrics file: %w", err)
	}

	w := csv.NewWriter(f)
	if stat.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write metrics header: %w", err)
		}
	}

	row := []string{
		m.Timestamp.UTC().Format(timestampLayout),
		strconv.FormatFloat(m.LatencyMS, 'f', 6, 64),
		strconv.Itoa(m.TokensPrompt),
		strconv.Itoa(m.TokensCompletion),
		strconv.Itoa(m.TokensTotal),
		strconv.FormatFloat(m.EstimatedCostUSD, 'f', 6, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write metrics row: %w", err)
	}

	w.Flush()
	return w.Error()
}
