package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrHoursOutOfRange    = errors.New("hours must be between 0 and 24")
	ErrDayExceeds24Hours  = errors.New("hours plus overtime must not exceed 24")
)
