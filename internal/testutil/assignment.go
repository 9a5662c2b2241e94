package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/assignment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/equipment"
	"github.com/google/uuid"
)

// AssignmentRepo is an in-memory assignment.AssignmentRepository. Rows keep
// insertion order; ListBySubject returns them newest created first.
type AssignmentRepo struct {
	mu    sync.Mutex
	Rows  []assignment.Assignment
	clock time.Time
}

func NewAssignmentRepo(rows ...assignment.Assignment) *AssignmentRepo {
	return &AssignmentRepo{Rows: rows, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func matchesSubject(a assignment.Assignment, s assignment.Subject) bool {
	if a.Kind != s.Kind {
		return false
	}
	if s.Kind == assignment.KindEquipment && s.EquipmentID != "" {
		return a.EquipmentID != nil && *a.EquipmentID == s.EquipmentID
	}
	return a.EmployeeID == s.EmployeeID
}

func (r *AssignmentRepo) Create(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	// Strictly increasing so created order is observable.
	r.clock = r.clock.Add(time.Minute)
	a.CreatedAt = r.clock
	a.UpdatedAt = r.clock
	r.Rows = append(r.Rows, a)
	return a, nil
}

func (r *AssignmentRepo) GetByID(_ context.Context, companyID, id string) (assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.Rows {
		if a.ID == id && a.CompanyID == companyID {
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrAssignmentNotFound
}

func (r *AssignmentRepo) ListBySubject(_ context.Context, companyID string, subject assignment.Subject) ([]assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []assignment.Assignment
	for _, a := range r.Rows {
		if a.CompanyID == companyID && matchesSubject(a, subject) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AssignmentRepo) Update(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.Rows {
		if existing.ID == a.ID && existing.CompanyID == a.CompanyID {
			a.UpdatedAt = time.Now()
			r.Rows[i] = a
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrAssignmentNotFound
}

func (r *AssignmentRepo) Delete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.Rows {
		if a.ID == id && a.CompanyID == companyID {
			r.Rows = append(r.Rows[:i], r.Rows[i+1:]...)
			return nil
		}
	}
	return assignment.ErrAssignmentNotFound
}

func (r *AssignmentRepo) CompleteActive(_ context.Context, companyID string, subject assignment.Subject, endDate time.Time, excludeID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i, a := range r.Rows {
		if a.CompanyID != companyID || a.ID == excludeID || !a.IsActive() || !matchesSubject(a, subject) {
			continue
		}
		a.Status = assignment.StatusCompleted
		if a.EndDate == nil {
			end := endDate
			if end.Before(a.StartDate) {
				end = a.StartDate
			}
			a.EndDate = &end
		}
		r.Rows[i] = a
		n++
	}
	return n, nil
}

// Find returns the stored row with id.
func (r *AssignmentRepo) Find(id string) (assignment.Assignment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.Rows {
		if a.ID == id {
			return a, true
		}
	}
	return assignment.Assignment{}, false
}

// EquipmentRepo is an in-memory equipment.EquipmentRepository.
type EquipmentRepo struct {
	mu    sync.Mutex
	Items map[string]equipment.Equipment
}

func NewEquipmentRepo(items ...equipment.Equipment) *EquipmentRepo {
	r := &EquipmentRepo{Items: make(map[string]equipment.Equipment)}
	for _, e := range items {
		r.Items[e.ID] = e
	}
	return r
}

func (r *EquipmentRepo) GetByID(_ context.Context, companyID, id string) (equipment.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.Items[id]
	if !ok || e.CompanyID != companyID {
		return equipment.Equipment{}, equipment.ErrEquipmentNotFound
	}
	return e, nil
}

func (r *EquipmentRepo) Create(_ context.Context, e equipment.Equipment) (equipment.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Items {
		if existing.CompanyID == e.CompanyID && existing.Code == e.Code {
			return equipment.Equipment{}, equipment.ErrEquipmentCodeExists
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.Items[e.ID] = e
	return e, nil
}

func (r *EquipmentRepo) ExistsByCode(_ context.Context, companyID, code string, excludeID *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Items {
		if e.CompanyID == companyID && e.Code == code && (excludeID == nil || e.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *EquipmentRepo) Update(_ context.Context, companyID, id string, req equipment.UpdateEquipmentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.Items[id]
	if !ok || e.CompanyID != companyID {
		return equipment.ErrEquipmentNotFound
	}
	if req.Code != nil {
		e.Code = *req.Code
	}
	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		e.Category = req.Category
	}
	if req.SerialNumber != nil {
		e.SerialNumber = req.SerialNumber
	}
	if req.Status != nil {
		e.Status = equipment.Status(*req.Status)
	}
	e.UpdatedAt = time.Now()
	r.Items[id] = e
	return nil
}

func (r *EquipmentRepo) UpdateStatus(_ context.Context, companyID, id string, status equipment.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.Items[id]
	if !ok || e.CompanyID != companyID {
		return equipment.ErrEquipmentNotFound
	}
	e.Status = status
	r.Items[id] = e
	return nil
}

func (r *EquipmentRepo) List(_ context.Context, companyID string, filter equipment.EquipmentFilter) ([]equipment.Equipment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []equipment.Equipment
	for _, e := range r.Items {
		if e.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		if filter.Category != nil && (e.Category == nil || *e.Category != *filter.Category) {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Code), q) {
				continue
			}
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	return matched[start:min(start+filter.Limit, len(matched))], total, nil
}
