package equipment

import "errors"

var (
	ErrEquipmentNotFound    = errors.New("equipment not found")
	ErrEquipmentCodeExists  = errors.New("equipment code already exists")
	ErrEquipmentUnavailable = errors.New("equipment is under maintenance or retired")
	ErrEquipmentInUse       = errors.New("equipment has an active assignment")
	ErrStatusDerived        = errors.New("assigned status is set by assignments")
)
