package notification

import (
	"context"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// ServiceInterface defines the contract for notification business logic
type ServiceInterface interface {
	FanOut(ctx context.Context, patient *users.User, message, notifType string) (int, error)
	Emergency(ctx context.Context, principal *auth.Principal) (int, error)
	List(principal *auth.Principal) ([]Notification, error)
	MarkRead(notificationID string, principal *auth.Principal) error
}

var _ ServiceInterface = (*Service)(nil)
