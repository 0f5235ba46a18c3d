package metricctrl

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"faqrag/src/core/faq"
)

// RequestMetric mirrors one metrics row in PostgreSQL for teams that
// query metrics with SQL instead of the CSV log. Insert-only: rows are
// never updated or deleted.
type RequestMetric struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp        time.Time `gorm:"not null" json:"timestamp"`
	LatencyMS        float64   `gorm:"not null;column:latency_ms" json:"latency_ms"`
	TokensPrompt     int       `gorm:"not null" json:"tokens_prompt"`
	TokensCompletion int       `gorm:"not null" json:"tokens_completion"`
	TokensTotal      int       `gorm:"not null" json:"tokens_total"`
	EstimatedCostUSD float64   `gorm:"not null;column:estimated_cost_usd" json:"estimated_cost_usd"`
	CreatedAt        time.Time `json:"created_at"`
}

type MetricService struct {
	db *gorm.DB
}

func NewMetricService(db *gorm.DB) (*MetricService, error) {
	if err := db.AutoMigrate(&RequestMetric{}); err != nil {
		return nil, fmt.Errorf("failed to migrate request_metrics: %v", err)
	}
	return &MetricService{db: db}, nil
}

// Record inserts one row.
func (s *MetricService) Record(ctx context.Context, m faq.RequestMetrics) error {
	row := &RequestMetric{
		Timestamp:        m.Timestamp,
		LatencyMS:        m.LatencyMS,
		TokensPrompt:     m.TokensPrompt,
		TokensCompletion: m.TokensCompletion,
		TokensTotal:      m.TokensTotal,
		EstimatedCostUSD: m.EstimatedCostUSD,
	}

	result := s.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		return fmt.Errorf("failed to record metrics: %v", result.Error)
	}
	return nil
}

// Recent returns the latest n rows, newest first.
func (s *MetricService) Recent(ctx context.Context, n int) ([]RequestMetric, error) {
	var rows []RequestMetric
	result := s.db.WithContext(ctx).Order("id desc").Limit(n).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list metrics: %v", result.Error)
	}
	return rows, nil
}
