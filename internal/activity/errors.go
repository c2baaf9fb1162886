package activity

import "errors"

var (
	ErrUnknownCategory  = errors.New("unknown activity category")
	ErrUnknownPeriod    = errors.New("unknown period for this category")
	ErrAlreadyConfirmed = errors.New("period already confirmed today")
	ErrLogNotFound      = errors.New("activity log not found")
	ErrNotAPatient      = errors.New("only older adults log activities")
	ErrNotLinked        = errors.New("not linked to this patient")
)
