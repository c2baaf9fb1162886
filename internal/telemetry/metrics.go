package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	ActivityLogTotal        metric.Int64Counter
	AlertsAggregatedTotal   metric.Int64Counter
	MissedDosesTotal        metric.Int64Counter
	NotificationsFannedOut  metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/CareConnect-Health/care-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	activityLogTotal, err := meter.Int64Counter(
		"activity_log_total",
		metric.WithDescription("Total number of activity log operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	alertsAggregatedTotal, err := meter.Int64Counter(
		"alerts_aggregated_total",
		metric.WithDescription("Total number of alerts assembled by the aggregator"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	missedDosesTotal, err := meter.Int64Counter(
		"missed_doses_total",
		metric.WithDescription("Total number of missed medication doses detected"),
		metric.WithUnit("{dose}"),
	)
	if err != nil {
		return nil, err
	}

	notificationsFannedOut, err := meter.Int64Counter(
		"notifications_fanned_out_total",
		metric.WithDescription("Total number of notification rows written during fan-out"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	permissionCheckDuration, err := meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:       httpRequestsTotal,
		HTTPDurationMs:          httpDurationMs,
		ActivityLogTotal:        activityLogTotal,
		AlertsAggregatedTotal:   alertsAggregatedTotal,
		MissedDosesTotal:        missedDosesTotal,
		NotificationsFannedOut:  notificationsFannedOut,
		AuthFailuresTotal:       authFailuresTotal,
		PermissionCheckDuration: permissionCheckDuration,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordActivityLogOperation records an activity log operation metric
func (m *Metrics) RecordActivityLogOperation(ctx context.Context, category, operation string) {
	m.ActivityLogTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("operation", operation),
	))
}

// RecordAlertsAggregated records the number of alerts produced by one aggregation
func (m *Metrics) RecordAlertsAggregated(ctx context.Context, count int) {
	m.AlertsAggregatedTotal.Add(ctx, int64(count))
}

// RecordMissedDose records a missed dose detection metric
func (m *Metrics) RecordMissedDose(ctx context.Context) {
	m.MissedDosesTotal.Add(ctx, 1)
}

// RecordNotificationsFannedOut records notification rows written by one fan-out
func (m *Metrics) RecordNotificationsFannedOut(ctx context.Context, alertType string, count int) {
	m.NotificationsFannedOut.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("alert_type", alertType),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
