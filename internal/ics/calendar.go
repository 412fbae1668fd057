package ics

import (
	"fmt"
	"regexp"
	"time"

	"shift-planner/internal/models"
)

// DefaultProductID identifies this generator in document headers.
const DefaultProductID = "-//Shift Planner//Exporter//EN"

// FileExtension is the interchange file extension, dot included.
const FileExtension = ".ics"

// monthNames are the localized month names used in filenames.
var monthNames = [12]string{
	"janvier", "fevrier", "mars", "avril", "mai", "juin",
	"juillet", "aout", "septembre", "octobre", "novembre", "decembre",
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// MonthName returns the localized name for month 1..12.
func MonthName(month int) string {
	return monthNames[month-1]
}

// Document is one built interchange document together with its suggested
// filename. Writing it anywhere is the caller's concern.
type Document struct {
	Filename string
	Content  string
	Warnings []Warning
}

// Builder wraps synthesized events into interchange documents. Building
// is pure: the only inputs are the schedule, the product id and the
// clock, and nothing is persisted.
type Builder struct {
	ProductID string

	// Now supplies the DTSTAMP generation timestamp. Overridable for
	// deterministic output in tests.
	Now func() time.Time
}

func NewBuilder(productID string) *Builder {
	if productID == "" {
		productID = DefaultProductID
	}
	return &Builder{
		ProductID: productID,
		Now:       time.Now,
	}
}

// EmployeeDocument builds the document for one employee of a schedule.
// An employee with zero entries yields nil: no file is produced.
func (b *Builder) EmployeeDocument(schedule *models.Schedule, employee models.Employee) *Document {
	if len(schedule.EntriesFor(employee.ID)) == 0 {
		return nil
	}

	events, warnings := SynthesizeEmployee(schedule, employee)

	return &Document{
		Filename: EmployeeFilename(employee.Name, schedule.Month, schedule.Year),
		Content:  writeCalendar(events, b.ProductID, b.Now()),
		Warnings: warnings,
	}
}

// AggregateDocument builds one document covering every employee of the
// schedule: timed events for the whole roster in one pass, then the
// all-day grouping pass per employee.
func (b *Builder) AggregateDocument(schedule *models.Schedule) *Document {
	events, warnings := SynthesizeAll(schedule)

	return &Document{
		Filename: AggregateFilename(schedule.Month, schedule.Year),
		Content:  writeCalendar(events, b.ProductID, b.Now()),
		Warnings: warnings,
	}
}

// EmployeeDocuments builds one document per roster employee, skipping
// employees without entries.
func (b *Builder) EmployeeDocuments(schedule *models.Schedule) []*Document {
	documents := make([]*Document, 0, len(schedule.Employees))
	for _, employee := range schedule.Employees {
		if doc := b.EmployeeDocument(schedule, employee); doc != nil {
			documents = append(documents, doc)
		}
	}
	return documents
}

// EmployeeFilename derives the per-employee document filename. Runs of
// whitespace in the employee name collapse to a single underscore.
func EmployeeFilename(employeeName string, month, year int) string {
	name := whitespaceRuns.ReplaceAllString(employeeName, "_")
	return fmt.Sprintf("%s_%s_%d%s", name, MonthName(month), year, FileExtension)
}

// AggregateFilename derives the aggregate document filename.
func AggregateFilename(month, year int) string {
	return fmt.Sprintf("Planning_%s_%d%s", MonthName(month), year, FileExtension)
}
