package medication

import "errors"

var (
	ErrMissingName        = errors.New("medication name is required")
	ErrMissingDosage      = errors.New("dosage is required")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrInvalidFirstHour   = errors.New("first hour must be HH:MM")
	ErrInvalidInterval    = errors.New("interval hours must be positive")
	ErrInvalidTimesPerDay = errors.New("times per day must be positive")
	ErrInvalidDoseIndex   = errors.New("dose index out of range")
	ErrInactiveDate       = errors.New("medication is not active on this date")
	ErrMedicationNotFound = errors.New("medication not found")
	ErrNotLinked          = errors.New("not linked to this patient")
	ErrForbidden          = errors.New("forbidden - insufficient permissions")
)
