// Package ics turns schedule entries into iCalendar events and wraps
// them into interchange documents.
package ics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"shift-planner/internal/models"

	"github.com/sirupsen/logrus"
)

// Event is one synthesized calendar event, ready for serialization.
// For all-day events only the date portions of Start and End are
// meaningful; a multi-day range carries an exclusive End date.
type Event struct {
	UID         string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Summary     string
	Description string
}

// Warning records an entry that was excluded from the output because its
// code is not in the shift-code registry. This is a non-fatal condition,
// not an error: the date is simply missing from the document.
type Warning struct {
	EmployeeID string
	Date       int
	Code       string
}

func (w Warning) String() string {
	return fmt.Sprintf("unknown schedule code %q (employee %s, day %d)", w.Code, w.EmployeeID, w.Date)
}

// span is a maximal run of consecutive dates sharing one all-day code
// for a single employee.
type span struct {
	start int
	end   int
	code  string
}

var synthLog = logrus.New()

// uidHost suffixes every generated UID.
const uidHost = "shift-planner"

// dateTime builds the clock time for one day of the month. Day values
// past the end of the month carry into the following month (and year),
// which is how overnight shifts on the last day roll over.
func dateTime(year, month, day int, clock string) time.Time {
	parts := strings.SplitN(clock, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes := 0
	if len(parts) == 2 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	return time.Date(year, time.Month(month), day, hours, minutes, 0, 0, time.UTC)
}

// timedEvent synthesizes the event for one timed entry. Overnight codes
// end on the following day.
func timedEvent(employee models.Employee, entry models.ScheduleEntry, code models.ShiftCode, year, month int) Event {
	start := dateTime(year, month, entry.Date, code.StartTime)

	endDay := entry.Date
	if code.Overnight() {
		endDay++
	}
	end := dateTime(year, month, endDay, code.EndTime)

	return Event{
		UID:         fmt.Sprintf("%d-%s-%s@%s", start.Unix(), employee.ID, entry.Code, uidHost),
		Start:       start,
		End:         end,
		AllDay:      false,
		Summary:     fmt.Sprintf("%s - %s", code.Description, employee.Name),
		Description: fmt.Sprintf("%s: %s", code.Code, code.Description),
	}
}

// allDayEvent synthesizes a single-day all-day event. The degenerate
// one-day case keeps DTEND equal to DTSTART; only multi-day ranges use
// the exclusive end form.
func allDayEvent(employee models.Employee, entry models.ScheduleEntry, code models.ShiftCode, year, month int) Event {
	day := dateTime(year, month, entry.Date, "00:00")

	return Event{
		UID:         fmt.Sprintf("%d-%s-%s@%s", dateTime(year, month, entry.Date, code.StartTime).Unix(), employee.ID, entry.Code, uidHost),
		Start:       day,
		End:         day,
		AllDay:      true,
		Summary:     fmt.Sprintf("%s - %s", code.Description, employee.Name),
		Description: fmt.Sprintf("%s: %s", code.Code, code.Description),
	}
}

// allDayRangeEvent synthesizes one ranged all-day event covering
// startDay..endDay inclusive. The serialized end date is exclusive, so
// the range extends one day past endDay.
func allDayRangeEvent(employee models.Employee, group span, code models.ShiftCode, year, month int) Event {
	return Event{
		UID: fmt.Sprintf("allday-%d-%d-%d-%d-%s-%s@%s",
			year, month, group.start, group.end, employee.ID, group.code, uidHost),
		Start:       dateTime(year, month, group.start, "00:00"),
		End:         dateTime(year, month, group.end+1, "00:00"),
		AllDay:      true,
		Summary:     fmt.Sprintf("%s - %s", code.Description, employee.Name),
		Description: fmt.Sprintf("%s: %s", code.Code, code.Description),
	}
}

// groupConsecutive merges entries with identical codes on strictly
// consecutive dates into spans. Input must already be sorted by date
// ascending; any break in code or date contiguity starts a new span.
func groupConsecutive(entries []models.ScheduleEntry) []span {
	if len(entries) == 0 {
		return nil
	}

	groups := make([]span, 0, len(entries))
	current := span{start: entries[0].Date, end: entries[0].Date, code: entries[0].Code}

	for _, entry := range entries[1:] {
		if entry.Code == current.code && entry.Date == current.end+1 {
			current.end = entry.Date
			continue
		}
		groups = append(groups, current)
		current = span{start: entry.Date, end: entry.Date, code: entry.Code}
	}

	return append(groups, current)
}

// partition splits entries into all-day and timed ones using the
// registry classification. Entries with unknown codes produce a warning
// and no event.
func partition(employeeID string, entries []models.ScheduleEntry) (allDay, timed []models.ScheduleEntry, warnings []Warning) {
	for _, entry := range entries {
		code, ok := models.LookupShiftCode(entry.Code)
		if !ok {
			warning := Warning{EmployeeID: employeeID, Date: entry.Date, Code: entry.Code}
			synthLog.WithFields(logrus.Fields{
				"employee_id": employeeID,
				"date":        entry.Date,
				"code":        entry.Code,
			}).Warn("Unknown schedule code, entry skipped")
			warnings = append(warnings, warning)
			continue
		}
		if code.AllDay() {
			allDay = append(allDay, entry)
		} else {
			timed = append(timed, entry)
		}
	}
	return allDay, timed, warnings
}

// allDayGroupEvents runs the grouping pass over one employee's sorted
// all-day entries and synthesizes one event per span.
func allDayGroupEvents(employee models.Employee, entries []models.ScheduleEntry, year, month int) []Event {
	events := make([]Event, 0, len(entries))
	for _, group := range groupConsecutive(entries) {
		code, ok := models.LookupShiftCode(group.code)
		if !ok {
			continue
		}
		if group.start == group.end {
			events = append(events, allDayEvent(employee, models.ScheduleEntry{
				EmployeeID: employee.ID,
				Date:       group.start,
				Code:       group.code,
			}, code, year, month))
			continue
		}
		events = append(events, allDayRangeEvent(employee, group, code, year, month))
	}
	return events
}

// SynthesizeEmployee produces the events for one employee of a schedule:
// timed entries first, one event each, then the all-day entries merged
// into spans. Cross-category ordering is not chronological; only dates
// within each category are ordered.
func SynthesizeEmployee(schedule *models.Schedule, employee models.Employee) ([]Event, []Warning) {
	entries := schedule.EntriesFor(employee.ID)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	allDay, timed, warnings := partition(employee.ID, entries)

	events := make([]Event, 0, len(entries))
	for _, entry := range timed {
		code, _ := models.LookupShiftCode(entry.Code)
		events = append(events, timedEvent(employee, entry, code, schedule.Year, schedule.Month))
	}
	events = append(events, allDayGroupEvents(employee, allDay, schedule.Year, schedule.Month)...)

	return events, warnings
}

// SynthesizeAll produces the events for every employee of a schedule:
// all timed events in one pass over the roster, then the all-day
// grouping pass per employee. Spans never merge across employees even
// when code and dates align.
func SynthesizeAll(schedule *models.Schedule) ([]Event, []Warning) {
	type employeeEntries struct {
		employee models.Employee
		allDay   []models.ScheduleEntry
		timed    []models.ScheduleEntry
	}

	partitioned := make([]employeeEntries, 0, len(schedule.Employees))
	warnings := make([]Warning, 0)

	for _, employee := range schedule.Employees {
		entries := schedule.EntriesFor(employee.ID)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

		allDay, timed, w := partition(employee.ID, entries)
		warnings = append(warnings, w...)
		partitioned = append(partitioned, employeeEntries{employee: employee, allDay: allDay, timed: timed})
	}

	events := make([]Event, 0)
	for _, pe := range partitioned {
		for _, entry := range pe.timed {
			code, _ := models.LookupShiftCode(entry.Code)
			events = append(events, timedEvent(pe.employee, entry, code, schedule.Year, schedule.Month))
		}
	}
	for _, pe := range partitioned {
		events = append(events, allDayGroupEvents(pe.employee, pe.allDay, schedule.Year, schedule.Month)...)
	}

	return events, warnings
}
