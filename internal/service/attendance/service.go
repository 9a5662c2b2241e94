package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
	}
}

// RecordAttendance implements attendance.AttendanceService.
// A second entry for the same employee and date replaces the first.
func (s *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, claims.CompanyID, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		req.Notes = &trimmed
	}

	saved, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		EmployeeID:    req.EmployeeID,
		CompanyID:     claims.CompanyID,
		Date:          date,
		Hours:         req.Hours,
		OvertimeHours: req.OvertimeHours,
		Notes:         req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record attendance: %w", err)
	}

	slog.DebugContext(ctx, "attendance recorded",
		"company_id", claims.CompanyID,
		"employee_id", req.EmployeeID,
		"date", req.Date,
	)
	return attendance.NewAttendanceResponse(saved), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, req attendance.ListAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, claims.CompanyID, req.EmployeeID); err != nil {
		return nil, err
	}

	period := payroll.NewPeriod(req.Year, req.Month)
	entries, err := s.AttendanceRepository.ListByEmployeeBetween(ctx, claims.CompanyID, req.EmployeeID, period.Start(), period.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(entries))
	for _, a := range entries {
		responses = append(responses, attendance.NewAttendanceResponse(a))
	}
	return responses, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}
	return s.AttendanceRepository.Delete(ctx, claims.CompanyID, id)
}
