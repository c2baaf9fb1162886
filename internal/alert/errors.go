package alert

import "errors"

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrRoleMismatch  = errors.New("only caregivers and family members have alerts")
)
