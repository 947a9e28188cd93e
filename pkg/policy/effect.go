package policy

//go:generate go run github.com/dmarkham/enumer -type Effect -trimprefix Effect -json -output effect.gen.go

// Effect is the outcome a statement applies to its matched actions.
type Effect int

const (
	EffectAllow Effect = iota
	EffectDeny
)
