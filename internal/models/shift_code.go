package models

// ShiftCode describes one assignable schedule code: its clock window,
// display description and grid color.
type ShiftCode struct {
	Code        string `json:"code"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Known shift codes. The set is closed: LookupShiftCode matches
// exhaustively over these constants and nothing else.
const (
	CodeDay           = "J"  // Jour
	CodeDayPaired     = "JC" // Jour jumelé
	CodeDayPairing    = "JB" // Jour de jumelage
	CodeNight         = "N"  // Nuit
	CodeNightPaired   = "NC" // Nuit jumelée
	CodeNightPairing  = "NA" // Nuit de jumelage
	CodeSickness      = "M"  // Maladie
	CodeMaternity     = "CM" // Congé maternité
	CodeMaternityStop = "MM" // Arrêt maternité
	CodeRest          = "R"  // Repos
	CodeVacation      = "V"  // Vacances
	CodeBlocked       = "X"  // Bloqué
	CodeTraining      = "F"  // Formation
)

// LookupShiftCode resolves a code token to its registry entry. The second
// return is false for codes outside the registry; callers must handle
// absence rather than assume presence.
func LookupShiftCode(code string) (ShiftCode, bool) {
	switch code {
	case CodeDay:
		return ShiftCode{Code: CodeDay, StartTime: "07:00", EndTime: "19:30", Description: "Jour", Color: "blue"}, true
	case CodeDayPaired:
		return ShiftCode{Code: CodeDayPaired, StartTime: "07:00", EndTime: "19:30", Description: "Jour jumelé", Color: "light-green"}, true
	case CodeDayPairing:
		return ShiftCode{Code: CodeDayPairing, StartTime: "07:00", EndTime: "19:30", Description: "Jour de jumelage", Color: "dark-green"}, true
	case CodeNight:
		return ShiftCode{Code: CodeNight, StartTime: "19:00", EndTime: "07:30", Description: "Nuit", Color: "black"}, true
	case CodeNightPaired:
		return ShiftCode{Code: CodeNightPaired, StartTime: "19:00", EndTime: "07:30", Description: "Nuit jumelée", Color: "dark-grey"}, true
	case CodeNightPairing:
		return ShiftCode{Code: CodeNightPairing, StartTime: "19:00", EndTime: "07:30", Description: "Nuit de jumelage", Color: "black"}, true
	case CodeSickness:
		return ShiftCode{Code: CodeSickness, StartTime: "00:00", EndTime: "23:59", Description: "Maladie", Color: "purple"}, true
	case CodeMaternity:
		return ShiftCode{Code: CodeMaternity, StartTime: "00:00", EndTime: "23:59", Description: "Congé maternité", Color: "pink"}, true
	case CodeMaternityStop:
		return ShiftCode{Code: CodeMaternityStop, StartTime: "00:00", EndTime: "23:59", Description: "Arrêt maternité", Color: "dark-pink"}, true
	case CodeRest:
		return ShiftCode{Code: CodeRest, StartTime: "00:00", EndTime: "23:59", Description: "Repos", Color: "yellow"}, true
	case CodeVacation:
		return ShiftCode{Code: CodeVacation, StartTime: "00:00", EndTime: "23:59", Description: "Vacances", Color: "orange"}, true
	case CodeBlocked:
		return ShiftCode{Code: CodeBlocked, StartTime: "00:00", EndTime: "23:59", Description: "Bloqué", Color: "red"}, true
	case CodeTraining:
		return ShiftCode{Code: CodeTraining, StartTime: "08:00", EndTime: "16:00", Description: "Formation", Color: "teal"}, true
	}
	return ShiftCode{}, false
}

// AllShiftCodes returns every registry entry in display order.
func AllShiftCodes() []ShiftCode {
	tokens := []string{
		CodeDay, CodeDayPaired, CodeDayPairing,
		CodeNight, CodeNightPaired, CodeNightPairing,
		CodeSickness, CodeMaternity, CodeMaternityStop,
		CodeRest, CodeVacation, CodeBlocked,
		CodeTraining,
	}
	codes := make([]ShiftCode, 0, len(tokens))
	for _, token := range tokens {
		code, _ := LookupShiftCode(token)
		codes = append(codes, code)
	}
	return codes
}

// AllDay reports whether the code covers the whole day (00:00-23:59).
// All-day codes are rendered without clock times.
func (c ShiftCode) AllDay() bool {
	return c.StartTime == "00:00" && c.EndTime == "23:59"
}

// Overnight reports whether the window crosses midnight into the next
// calendar day. "HH:MM" strings order lexicographically like clock times.
func (c ShiftCode) Overnight() bool {
	return c.StartTime > c.EndTime
}
