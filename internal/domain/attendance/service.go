package attendance

import "context"

type AttendanceService interface {
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, req ListAttendanceRequest) ([]AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error
}
