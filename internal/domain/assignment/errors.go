package assignment

import "errors"

var (
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrInvalidDateRange    = errors.New("end_date must not be before start_date")
	ErrEquipmentRequired   = errors.New("equipment_id is required for equipment assignments")
	ErrEquipmentNotAllowed = errors.New("equipment_id is only allowed on equipment assignments")
)
