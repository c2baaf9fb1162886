package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotAPatient          = errors.New("only older adults can raise an emergency")
	ErrNoRecipients         = errors.New("no linked carers to notify")
)
