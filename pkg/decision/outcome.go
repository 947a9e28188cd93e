package decision

//go:generate go run github.com/dmarkham/enumer -type Outcome -trimprefix Outcome -transform lower -json -yaml -output outcome.gen.go

// Outcome is the result of an access evaluation. Deny is the zero value so
// that unset defaults fail closed.
type Outcome int

const (
	OutcomeDeny Outcome = iota
	OutcomeAllow
	OutcomeReview
)
