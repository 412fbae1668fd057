package ics

import (
	"strings"
	"time"
)

// The interchange document is line-oriented with CRLF endings. All-day
// dates use the 8-digit form; timed values are full UTC timestamps.
const (
	crlf            = "\r\n"
	timestampLayout = "20060102T150405Z"
	dateLayout      = "20060102"
)

// formatTimestamp renders a UTC timestamp value.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// formatDate renders an all-day date value.
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// escapeText escapes free-text property values: backslash, semicolon and
// comma get a preceding backslash, a newline becomes the literal \n.
// Backslash must be handled first.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, ";", `\;`)
	text = strings.ReplaceAll(text, ",", `\,`)
	text = strings.ReplaceAll(text, "\n", `\n`)
	return text
}

// writeEvent appends one VEVENT block. dtstamp is the generation
// timestamp shared by every event of a document.
func writeEvent(b *strings.Builder, event Event, dtstamp time.Time) {
	b.WriteString("BEGIN:VEVENT" + crlf)
	b.WriteString("UID:" + event.UID + crlf)
	b.WriteString("DTSTAMP:" + formatTimestamp(dtstamp) + crlf)

	if event.AllDay {
		b.WriteString("DTSTART;VALUE=DATE:" + formatDate(event.Start) + crlf)
		b.WriteString("DTEND;VALUE=DATE:" + formatDate(event.End) + crlf)
	} else {
		b.WriteString("DTSTART:" + formatTimestamp(event.Start) + crlf)
		b.WriteString("DTEND:" + formatTimestamp(event.End) + crlf)
	}

	b.WriteString("SUMMARY:" + escapeText(event.Summary) + crlf)
	b.WriteString("DESCRIPTION:" + escapeText(event.Description) + crlf)
	b.WriteString("END:VEVENT" + crlf)
}

// writeCalendar wraps events in the fixed VCALENDAR envelope.
func writeCalendar(events []Event, productID string, dtstamp time.Time) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR" + crlf)
	b.WriteString("VERSION:2.0" + crlf)
	b.WriteString("PRODID:" + productID + crlf)
	b.WriteString("CALSCALE:GREGORIAN" + crlf)
	b.WriteString("METHOD:PUBLISH" + crlf)

	for _, event := range events {
		writeEvent(&b, event, dtstamp)
	}

	b.WriteString("END:VCALENDAR" + crlf)
	return b.String()
}
