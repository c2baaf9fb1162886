package alert

import (
	"context"

	"github.com/CareConnect-Health/care-service/internal/auth"
)

// ServiceInterface defines the contract for alert aggregation
type ServiceInterface interface {
	Aggregate(ctx context.Context, principal *auth.Principal) ([]Alert, error)
	Dismiss(ctx context.Context, alertID string, principal *auth.Principal) error
}

var _ ServiceInterface = (*Service)(nil)
