package diag

// Severity orders diagnostics; a higher value is more serious.
type Severity uint8

const (
	// SevInfo marks notes that never block processing.
	SevInfo Severity = iota
	// SevWarning marks a request or rule that was skipped.
	SevWarning
	// SevError marks a file that cannot be annotated.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Blocking reports whether a diagnostic of this severity makes the file
// unprocessable.
func (s Severity) Blocking() bool { return s >= SevError }
