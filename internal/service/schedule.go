package service

import (
	"fmt"

	"shift-planner/internal/models"
	"shift-planner/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScheduleService enforces the schedule aggregate invariants on top of
// the repository: no entry references a missing employee, at most one
// entry per (employee, date), never an empty roster.
//
// Every mutation is a full read-validate-write cycle on the whole
// schedule record. There is no locking or versioning: two interleaved
// writers against the same schedule id are last-write-wins at record
// granularity, and callers are expected to serialize access themselves.
type ScheduleService struct {
	repo   repository.ScheduleRepository
	logger *logrus.Logger
}

func NewScheduleService(repo repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{
		repo:   repo,
		logger: logrus.New(),
	}
}

// GenerateID returns a fresh opaque schedule or employee id.
func (s *ScheduleService) GenerateID() string {
	return uuid.NewString()
}

// SaveSchedule validates and persists the whole schedule record,
// registering its id in the index when new.
func (s *ScheduleService) SaveSchedule(schedule *models.Schedule) error {
	s.logger.WithFields(logrus.Fields{
		"id":    schedule.ID,
		"year":  schedule.Year,
		"month": schedule.Month,
	}).Info("Saving schedule")

	if schedule.ID == "" || schedule.Year == 0 {
		s.logger.Warn("Schedule is missing required fields")
		return fmt.Errorf("%w: schedule requires id, month and year", ErrValidation)
	}
	if schedule.Month < 1 || schedule.Month > 12 {
		s.logger.WithField("month", schedule.Month).Warn("Schedule month out of range")
		return fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}
	if len(schedule.Employees) == 0 {
		s.logger.Warn("Schedule has an empty roster")
		return fmt.Errorf("%w: at least one employee is required", ErrValidation)
	}

	return s.repo.Put(schedule)
}

// GetSchedule returns the schedule for id, or nil when absent. Absence
// is a valid result, not an error.
func (s *ScheduleService) GetSchedule(id string) (*models.Schedule, error) {
	s.logger.WithField("id", id).Debug("Getting schedule")
	return s.repo.Get(id)
}

// ListSchedules returns all persisted schedules in index order.
func (s *ScheduleService) ListSchedules() ([]*models.Schedule, error) {
	s.logger.Debug("Listing schedules")
	return s.repo.List()
}

// DeleteSchedule removes the schedule and clears the current-schedule
// pointer if it targeted this id. Unknown ids are a no-op.
func (s *ScheduleService) DeleteSchedule(id string) error {
	s.logger.WithField("id", id).Info("Deleting schedule")
	return s.repo.Delete(id)
}

// SetCurrentSchedule points the process-wide current-schedule cell at an
// existing schedule.
func (s *ScheduleService) SetCurrentSchedule(id string) error {
	schedule, err := s.repo.Get(id)
	if err != nil {
		return err
	}
	if schedule == nil {
		s.logger.WithField("id", id).Warn("Cannot set current schedule: not found")
		return fmt.Errorf("%w: schedule %s", ErrNotFound, id)
	}

	s.logger.WithField("id", id).Info("Setting current schedule")
	return s.repo.SetCurrentID(id)
}

// GetCurrentSchedule resolves the current-schedule pointer. An unset or
// dangling pointer yields nil.
func (s *ScheduleService) GetCurrentSchedule() (*models.Schedule, error) {
	id, err := s.repo.CurrentID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return s.repo.Get(id)
}

// ClearCurrentSchedule unsets the current-schedule pointer.
func (s *ScheduleService) ClearCurrentSchedule() error {
	s.logger.Info("Clearing current schedule")
	return s.repo.ClearCurrentID()
}

// AddEntry upserts an entry at (employeeId, date): an existing entry is
// replaced in place, otherwise the entry is appended. The code is not
// checked against the shift-code registry here; unknown codes are
// tolerated at write time and skipped with a warning at synthesis time.
func (s *ScheduleService) AddEntry(scheduleID string, entry models.ScheduleEntry) error {
	s.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"employee_id": entry.EmployeeID,
		"date":        entry.Date,
		"code":        entry.Code,
	}).Info("Adding schedule entry")

	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}

	if entry.EmployeeID == "" || entry.Code == "" || entry.Date == 0 {
		s.logger.Warn("Entry is missing required fields")
		return fmt.Errorf("%w: entry requires employeeId, date and code", ErrValidation)
	}
	if entry.Date < 1 || entry.Date > 31 {
		s.logger.WithField("date", entry.Date).Warn("Entry date out of range")
		return fmt.Errorf("%w: date must be between 1 and 31", ErrValidation)
	}
	if !schedule.HasEmployee(entry.EmployeeID) {
		s.logger.WithField("employee_id", entry.EmployeeID).Warn("Entry references unknown employee")
		return fmt.Errorf("%w: %s", ErrUnknownEmployee, entry.EmployeeID)
	}

	replaced := false
	for i := range schedule.Entries {
		if schedule.Entries[i].EmployeeID == entry.EmployeeID && schedule.Entries[i].Date == entry.Date {
			schedule.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		schedule.Entries = append(schedule.Entries, entry)
	}

	return s.repo.Put(schedule)
}

// UpdateEntry is an alias of AddEntry; the upsert already covers it.
func (s *ScheduleService) UpdateEntry(scheduleID string, entry models.ScheduleEntry) error {
	return s.AddEntry(scheduleID, entry)
}

// RemoveEntry deletes the entry at (employeeId, date) if present; a
// missing entry is a no-op.
func (s *ScheduleService) RemoveEntry(scheduleID, employeeID string, date int) error {
	s.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"employee_id": employeeID,
		"date":        date,
	}).Info("Removing schedule entry")

	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}

	kept := make([]models.ScheduleEntry, 0, len(schedule.Entries))
	for _, entry := range schedule.Entries {
		if entry.EmployeeID == employeeID && entry.Date == date {
			continue
		}
		kept = append(kept, entry)
	}
	schedule.Entries = kept

	return s.repo.Put(schedule)
}

// GetEntry returns the entry at (employeeId, date), or nil when either
// the schedule or the entry is absent.
func (s *ScheduleService) GetEntry(scheduleID, employeeID string, date int) (*models.ScheduleEntry, error) {
	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, nil
	}

	if entry, ok := schedule.EntryAt(employeeID, date); ok {
		return &entry, nil
	}
	return nil, nil
}

// GetEntriesForEmployee returns one employee's entries in storage order.
// An absent schedule yields an empty result.
func (s *ScheduleService) GetEntriesForEmployee(scheduleID, employeeID string) ([]models.ScheduleEntry, error) {
	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return []models.ScheduleEntry{}, nil
	}
	return schedule.EntriesFor(employeeID), nil
}

// AddEmployee appends a new employee to the roster.
func (s *ScheduleService) AddEmployee(scheduleID string, employee models.Employee) error {
	s.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"employee_id": employee.ID,
	}).Info("Adding employee")

	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}

	if employee.ID == "" || employee.Name == "" {
		s.logger.Warn("Employee is missing required fields")
		return fmt.Errorf("%w: employee requires id and name", ErrValidation)
	}
	if schedule.HasEmployee(employee.ID) {
		s.logger.WithField("employee_id", employee.ID).Warn("Employee already on roster")
		return fmt.Errorf("%w: %s", ErrDuplicateEmployee, employee.ID)
	}

	schedule.Employees = append(schedule.Employees, employee)

	return s.repo.Put(schedule)
}

// UpdateEmployee replaces the roster record with the same id, keeping
// its position.
func (s *ScheduleService) UpdateEmployee(scheduleID string, employee models.Employee) error {
	s.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"employee_id": employee.ID,
	}).Info("Updating employee")

	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}

	if employee.ID == "" || employee.Name == "" {
		s.logger.Warn("Employee is missing required fields")
		return fmt.Errorf("%w: employee requires id and name", ErrValidation)
	}

	updated := false
	for i := range schedule.Employees {
		if schedule.Employees[i].ID == employee.ID {
			schedule.Employees[i] = employee
			updated = true
			break
		}
	}
	if !updated {
		s.logger.WithField("employee_id", employee.ID).Warn("Employee not found for update")
		return fmt.Errorf("%w: employee %s", ErrNotFound, employee.ID)
	}

	return s.repo.Put(schedule)
}

// RemoveEmployee removes the employee and cascades deletion of all their
// entries. The last employee of a schedule cannot be removed.
func (s *ScheduleService) RemoveEmployee(scheduleID, employeeID string) error {
	s.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"employee_id": employeeID,
	}).Info("Removing employee")

	schedule, err := s.repo.Get(scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}

	if len(schedule.Employees) <= 1 {
		s.logger.Warn("Refusing to remove the last employee")
		return ErrCannotRemoveLastEmployee
	}

	employees := make([]models.Employee, 0, len(schedule.Employees))
	for _, emp := range schedule.Employees {
		if emp.ID != employeeID {
			employees = append(employees, emp)
		}
	}
	schedule.Employees = employees

	entries := make([]models.ScheduleEntry, 0, len(schedule.Entries))
	for _, entry := range schedule.Entries {
		if entry.EmployeeID != employeeID {
			entries = append(entries, entry)
		}
	}
	schedule.Entries = entries

	return s.repo.Put(schedule)
}
