package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 引き換え成功数
	RedemptionCount metric.Int64Counter

	// 引き換え拒否数（理由別）
	RedemptionRejectionCount metric.Int64Counter

	// コードごとの使用回数
	CodeUsageCount metric.Int64Gauge

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	redemptionCount, err := meter.Int64Counter(
		"redemptions_total",
		metric.WithDescription("Total number of successful code redemptions"),
	)
	if err != nil {
		return nil, err
	}

	redemptionRejectionCount, err := meter.Int64Counter(
		"redemption_rejections_total",
		metric.WithDescription("Total number of rejected redemption attempts"),
	)
	if err != nil {
		return nil, err
	}

	codeUsageCount, err := meter.Int64Gauge(
		"code_usage_count",
		metric.WithDescription("Current usage count per redeem code"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RedemptionCount:          redemptionCount,
		RedemptionRejectionCount: redemptionRejectionCount,
		CodeUsageCount:           codeUsageCount,
		RequestCount:             requestCount,
		ResponseTime:             responseTime,
		ErrorCount:               errorCount,
	}, nil
}

// RecordRedemption 引き換え成功を記録
func (m *Metrics) RecordRedemption(ctx context.Context, codeType string) {
	m.RedemptionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("code_type", codeType),
		),
	)
}

// RecordRedemptionRejection 引き換え拒否を記録
func (m *Metrics) RecordRedemptionRejection(ctx context.Context, reason string) {
	m.RedemptionRejectionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("reason", reason),
		),
	)
}

// RecordCodeUsage コードの使用回数を記録
func (m *Metrics) RecordCodeUsage(ctx context.Context, code string, count int64) {
	m.CodeUsageCount.Record(ctx, count,
		metric.WithAttributes(
			attribute.String("code", code),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
