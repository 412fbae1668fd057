package service

import (
	"errors"
	"reflect"
	"testing"

	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/storage"
)

func newTestService() *ScheduleService {
	return NewScheduleService(repository.NewKVScheduleRepository(storage.NewMemoryKV()))
}

func testSchedule() *models.Schedule {
	return &models.Schedule{
		ID:    "s1",
		Month: 12,
		Year:  2025,
		Employees: []models.Employee{
			{ID: "e1", Name: "John"},
			{ID: "e2", Name: "Jane"},
		},
		Entries: []models.ScheduleEntry{},
	}
}

func mustSave(t *testing.T, svc *ScheduleService, schedule *models.Schedule) {
	t.Helper()
	if err := svc.SaveSchedule(schedule); err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	svc := newTestService()
	schedule := testSchedule()
	schedule.Entries = []models.ScheduleEntry{{EmployeeID: "e1", Date: 15, Code: "J"}}

	mustSave(t, svc, schedule)

	got, err := svc.GetSchedule("s1")
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if !reflect.DeepEqual(got, schedule) {
		t.Errorf("round trip mismatch:\ngot  %#v\nwant %#v", got, schedule)
	}
}

func TestGetAbsentSchedule(t *testing.T) {
	svc := newTestService()

	got, err := svc.GetSchedule("missing")
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an absent schedule, got %#v", got)
	}
}

func TestSaveScheduleValidation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name   string
		mutate func(s *models.Schedule)
	}{
		{"missing id", func(s *models.Schedule) { s.ID = "" }},
		{"missing year", func(s *models.Schedule) { s.Year = 0 }},
		{"month zero", func(s *models.Schedule) { s.Month = 0 }},
		{"month too large", func(s *models.Schedule) { s.Month = 13 }},
		{"empty roster", func(s *models.Schedule) { s.Employees = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := testSchedule()
			tt.mutate(schedule)
			err := svc.SaveSchedule(schedule)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("SaveSchedule = %v, want ErrValidation", err)
			}
		})
	}
}

func TestListSchedules(t *testing.T) {
	svc := newTestService()

	first := testSchedule()
	second := testSchedule()
	second.ID = "s2"
	second.Month = 1
	mustSave(t, svc, first)
	mustSave(t, svc, second)

	// Re-saving must not duplicate the index entry.
	mustSave(t, svc, first)

	schedules, err := svc.ListSchedules()
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("got %d schedules, want 2", len(schedules))
	}
	if schedules[0].ID != "s1" || schedules[1].ID != "s2" {
		t.Errorf("index order = %s, %s", schedules[0].ID, schedules[1].ID)
	}
}

func TestDeleteSchedule(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	if err := svc.SetCurrentSchedule("s1"); err != nil {
		t.Fatalf("SetCurrentSchedule failed: %v", err)
	}
	if err := svc.DeleteSchedule("s1"); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}

	if got, _ := svc.GetSchedule("s1"); got != nil {
		t.Error("schedule still readable after delete")
	}
	schedules, _ := svc.ListSchedules()
	if len(schedules) != 0 {
		t.Errorf("index still lists %d schedules", len(schedules))
	}

	// Deleting the current schedule clears the pointer.
	current, err := svc.GetCurrentSchedule()
	if err != nil {
		t.Fatalf("GetCurrentSchedule failed: %v", err)
	}
	if current != nil {
		t.Errorf("current pointer still resolves to %s", current.ID)
	}

	// Deleting an unknown id stays a no-op.
	if err := svc.DeleteSchedule("missing"); err != nil {
		t.Errorf("DeleteSchedule(missing) = %v, want nil", err)
	}
}

func TestCurrentSchedulePointer(t *testing.T) {
	svc := newTestService()

	// Unset at first use.
	current, err := svc.GetCurrentSchedule()
	if err != nil || current != nil {
		t.Fatalf("GetCurrentSchedule = %v, %v, want nil, nil", current, err)
	}

	if err := svc.SetCurrentSchedule("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCurrentSchedule(missing) = %v, want ErrNotFound", err)
	}

	mustSave(t, svc, testSchedule())
	if err := svc.SetCurrentSchedule("s1"); err != nil {
		t.Fatalf("SetCurrentSchedule failed: %v", err)
	}

	current, err = svc.GetCurrentSchedule()
	if err != nil {
		t.Fatalf("GetCurrentSchedule failed: %v", err)
	}
	if current == nil || current.ID != "s1" {
		t.Errorf("current = %#v, want s1", current)
	}

	if err := svc.ClearCurrentSchedule(); err != nil {
		t.Fatalf("ClearCurrentSchedule failed: %v", err)
	}
	if current, _ = svc.GetCurrentSchedule(); current != nil {
		t.Error("pointer still set after clear")
	}
}

func TestAddEntryUpsert(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	entry := models.ScheduleEntry{EmployeeID: "e1", Date: 15, Code: "J"}
	if err := svc.AddEntry("s1", entry); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	// Same (employee, date) twice: one stored entry with the second value.
	entry.Code = "N"
	if err := svc.AddEntry("s1", entry); err != nil {
		t.Fatalf("AddEntry replace failed: %v", err)
	}

	schedule, _ := svc.GetSchedule("s1")
	if len(schedule.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(schedule.Entries))
	}
	if schedule.Entries[0].Code != "N" {
		t.Errorf("stored code = %s, want N", schedule.Entries[0].Code)
	}
}

func TestAddEntryFailures(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	tests := []struct {
		name       string
		scheduleID string
		entry      models.ScheduleEntry
		want       error
	}{
		{"absent schedule", "missing", models.ScheduleEntry{EmployeeID: "e1", Date: 1, Code: "J"}, ErrNotFound},
		{"missing employee id", "s1", models.ScheduleEntry{Date: 1, Code: "J"}, ErrValidation},
		{"missing code", "s1", models.ScheduleEntry{EmployeeID: "e1", Date: 1}, ErrValidation},
		{"date zero", "s1", models.ScheduleEntry{EmployeeID: "e1", Date: 0, Code: "J"}, ErrValidation},
		{"date too large", "s1", models.ScheduleEntry{EmployeeID: "e1", Date: 32, Code: "J"}, ErrValidation},
		{"unknown employee", "s1", models.ScheduleEntry{EmployeeID: "e9", Date: 1, Code: "J"}, ErrUnknownEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.AddEntry(tt.scheduleID, tt.entry); !errors.Is(err, tt.want) {
				t.Errorf("AddEntry = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddEntryToleratesUnknownCode(t *testing.T) {
	// Codes are not validated against the registry at write time; an
	// unknown code only surfaces as a warning at synthesis time.
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	if err := svc.AddEntry("s1", models.ScheduleEntry{EmployeeID: "e1", Date: 1, Code: "ZZ"}); err != nil {
		t.Errorf("AddEntry with unregistered code = %v, want nil", err)
	}
}

func TestRemoveEntry(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	if err := svc.AddEntry("s1", models.ScheduleEntry{EmployeeID: "e1", Date: 15, Code: "J"}); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	if err := svc.RemoveEntry("s1", "e1", 15); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	schedule, _ := svc.GetSchedule("s1")
	if len(schedule.Entries) != 0 {
		t.Errorf("entry still present after removal")
	}

	// Removing an absent entry is a no-op; an absent schedule is not.
	if err := svc.RemoveEntry("s1", "e1", 15); err != nil {
		t.Errorf("RemoveEntry no-op = %v, want nil", err)
	}
	if err := svc.RemoveEntry("missing", "e1", 15); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveEntry(missing schedule) = %v, want ErrNotFound", err)
	}
}

func TestGetEntryAndEntriesForEmployee(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	entries := []models.ScheduleEntry{
		{EmployeeID: "e1", Date: 1, Code: "J"},
		{EmployeeID: "e2", Date: 1, Code: "N"},
		{EmployeeID: "e1", Date: 2, Code: "V"},
	}
	for _, entry := range entries {
		if err := svc.AddEntry("s1", entry); err != nil {
			t.Fatalf("AddEntry failed: %v", err)
		}
	}

	entry, err := svc.GetEntry("s1", "e1", 2)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry == nil || entry.Code != "V" {
		t.Errorf("GetEntry = %#v, want code V", entry)
	}
	if entry, _ = svc.GetEntry("s1", "e1", 9); entry != nil {
		t.Error("GetEntry reported a nonexistent entry")
	}
	if entry, _ = svc.GetEntry("missing", "e1", 1); entry != nil {
		t.Error("GetEntry on absent schedule must yield nil")
	}

	forE1, err := svc.GetEntriesForEmployee("s1", "e1")
	if err != nil {
		t.Fatalf("GetEntriesForEmployee failed: %v", err)
	}
	if len(forE1) != 2 || forE1[0].Date != 1 || forE1[1].Date != 2 {
		t.Errorf("entries for e1 = %#v", forE1)
	}

	empty, err := svc.GetEntriesForEmployee("missing", "e1")
	if err != nil || len(empty) != 0 {
		t.Errorf("absent schedule must yield an empty result, got %#v, %v", empty, err)
	}
}

func TestAddEmployee(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	if err := svc.AddEmployee("s1", models.Employee{ID: "e3", Name: "Marie"}); err != nil {
		t.Fatalf("AddEmployee failed: %v", err)
	}
	schedule, _ := svc.GetSchedule("s1")
	if len(schedule.Employees) != 3 || schedule.Employees[2].ID != "e3" {
		t.Errorf("roster = %#v", schedule.Employees)
	}

	if err := svc.AddEmployee("s1", models.Employee{ID: "e1", Name: "Dup"}); !errors.Is(err, ErrDuplicateEmployee) {
		t.Errorf("duplicate AddEmployee = %v, want ErrDuplicateEmployee", err)
	}
	if err := svc.AddEmployee("s1", models.Employee{ID: "", Name: "x"}); !errors.Is(err, ErrValidation) {
		t.Errorf("AddEmployee without id = %v, want ErrValidation", err)
	}
	if err := svc.AddEmployee("missing", models.Employee{ID: "e4", Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddEmployee on absent schedule = %v, want ErrNotFound", err)
	}
}

func TestUpdateEmployeeKeepsPosition(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	if err := svc.UpdateEmployee("s1", models.Employee{ID: "e1", Name: "Johnny"}); err != nil {
		t.Fatalf("UpdateEmployee failed: %v", err)
	}
	schedule, _ := svc.GetSchedule("s1")
	if schedule.Employees[0].ID != "e1" || schedule.Employees[0].Name != "Johnny" {
		t.Errorf("roster after update = %#v", schedule.Employees)
	}

	if err := svc.UpdateEmployee("s1", models.Employee{ID: "e9", Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEmployee(unknown) = %v, want ErrNotFound", err)
	}
	if err := svc.UpdateEmployee("s1", models.Employee{ID: "e1"}); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateEmployee without name = %v, want ErrValidation", err)
	}
}

func TestRemoveEmployeeCascadesEntries(t *testing.T) {
	svc := newTestService()
	mustSave(t, svc, testSchedule())

	for _, entry := range []models.ScheduleEntry{
		{EmployeeID: "e1", Date: 1, Code: "J"},
		{EmployeeID: "e1", Date: 2, Code: "J"},
		{EmployeeID: "e2", Date: 1, Code: "N"},
	} {
		if err := svc.AddEntry("s1", entry); err != nil {
			t.Fatalf("AddEntry failed: %v", err)
		}
	}

	if err := svc.RemoveEmployee("s1", "e1"); err != nil {
		t.Fatalf("RemoveEmployee failed: %v", err)
	}

	schedule, _ := svc.GetSchedule("s1")
	if len(schedule.Employees) != 1 || schedule.Employees[0].ID != "e2" {
		t.Errorf("roster = %#v", schedule.Employees)
	}
	if len(schedule.Entries) != 1 || schedule.Entries[0].EmployeeID != "e2" {
		t.Errorf("entries after cascade = %#v", schedule.Entries)
	}
}

func TestRemoveLastEmployeeRefused(t *testing.T) {
	svc := newTestService()
	schedule := testSchedule()
	schedule.Employees = schedule.Employees[:1]
	schedule.Entries = []models.ScheduleEntry{{EmployeeID: "e1", Date: 1, Code: "J"}}
	mustSave(t, svc, schedule)

	err := svc.RemoveEmployee("s1", "e1")
	if !errors.Is(err, ErrCannotRemoveLastEmployee) {
		t.Fatalf("RemoveEmployee = %v, want ErrCannotRemoveLastEmployee", err)
	}

	// The schedule must be left unchanged.
	got, _ := svc.GetSchedule("s1")
	if len(got.Employees) != 1 || len(got.Entries) != 1 {
		t.Errorf("schedule mutated by refused removal: %#v", got)
	}
}

func TestGenerateID(t *testing.T) {
	svc := newTestService()
	first := svc.GenerateID()
	second := svc.GenerateID()
	if first == "" || second == "" || first == second {
		t.Errorf("GenerateID produced %q and %q", first, second)
	}
}
