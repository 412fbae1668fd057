package models

// Employee is a member of a schedule's roster. The ID is opaque and
// unique within its owning schedule only.
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScheduleEntry assigns a shift code to one employee on one day of the
// schedule's month. At most one entry may exist per (employee, date).
type ScheduleEntry struct {
	EmployeeID string `json:"employeeId"`
	Date       int    `json:"date"`
	Code       string `json:"code"`
}

// Schedule is the aggregate and the sole unit of persistence. Employees
// and entries have no lifecycle outside their owning schedule. Employee
// order is insertion order and doubles as display order.
type Schedule struct {
	ID        string          `json:"id"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Employees []Employee      `json:"employees"`
	Entries   []ScheduleEntry `json:"entries"`
}

// HasEmployee reports whether id is on the roster.
func (s *Schedule) HasEmployee(id string) bool {
	for _, emp := range s.Employees {
		if emp.ID == id {
			return true
		}
	}
	return false
}

// EmployeeByID returns the roster record for id, or nil.
func (s *Schedule) EmployeeByID(id string) *Employee {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return &s.Employees[i]
		}
	}
	return nil
}

// EntriesFor returns the entries of one employee in storage order.
func (s *Schedule) EntriesFor(employeeID string) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0)
	for _, entry := range s.Entries {
		if entry.EmployeeID == employeeID {
			entries = append(entries, entry)
		}
	}
	return entries
}

// EntryAt returns the entry at (employeeID, date), if any.
func (s *Schedule) EntryAt(employeeID string, date int) (ScheduleEntry, bool) {
	for _, entry := range s.Entries {
		if entry.EmployeeID == employeeID && entry.Date == date {
			return entry, true
		}
	}
	return ScheduleEntry{}, false
}

// IsValid checks the aggregate invariants a schedule must satisfy before
// it may be persisted.
func (s *Schedule) IsValid() bool {
	if s.ID == "" || s.Year == 0 {
		return false
	}
	if s.Month < 1 || s.Month > 12 {
		return false
	}
	if len(s.Employees) == 0 {
		return false
	}
	return true
}
