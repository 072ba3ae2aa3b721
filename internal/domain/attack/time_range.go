package attack

import "time"

// ReportWindow is the inclusive time range attack aggregates are computed over
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// CalculateReportWindow determines the window ending at asOf and reaching windowDays back.
// A windowDays of zero or less leaves the start open so the whole attack log is used.
// Pure function: Takes asOf as parameter to enable deterministic testing
func CalculateReportWindow(asOf time.Time, windowDays int) ReportWindow {
	window := ReportWindow{End: asOf}
	if windowDays > 0 {
		window.Start = asOf.AddDate(0, 0, -windowDays)
	}
	return window
}
