package lint

//go:generate go run github.com/dmarkham/enumer -type Severity -trimprefix Severity -transform lower -json -output severity.gen.go

// Severity ranks how urgently a finding should be acted on.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)
