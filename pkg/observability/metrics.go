package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const metricNamespace = "Exercisely"

// Metrics publishes operational counters to CloudWatch. Publishing is
// best-effort: a failed put is logged and dropped, never surfaced to the
// request path.
type Metrics struct {
	client  *cloudwatch.Client
	logger  *zap.Logger
	enabled bool
}

// NewMetrics creates a new metrics publisher
func NewMetrics(client *cloudwatch.Client, logger *zap.Logger, enabled bool) *Metrics {
	return &Metrics{
		client:  client,
		logger:  logger,
		enabled: enabled,
	}
}

// Count publishes a count metric with optional dimensions.
func (m *Metrics) Count(ctx context.Context, name string, value float64, dims map[string]string) {
	if !m.enabled || m.client == nil {
		return
	}

	var dimensions []types.Dimension
	for k, v := range dims {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricNamespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})
	if err != nil {
		m.logger.Warn("Failed to publish metric",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}

// CounterUnderflow records a guarded decrement that found its counter
// already at zero.
func (m *Metrics) CounterUnderflow(ctx context.Context, field string) {
	m.Count(ctx, "CounterUnderflow", 1, map[string]string{"Field": field})
}

// CacheRefresh records a full catalog load from the store of record.
func (m *Metrics) CacheRefresh(ctx context.Context, items int) {
	m.Count(ctx, "CatalogCacheRefresh", float64(items), nil)
}

// FilterExtractionFailure records a failed AI filter extraction.
func (m *Metrics) FilterExtractionFailure(ctx context.Context) {
	m.Count(ctx, "FilterExtractionFailure", 1, nil)
}
