// Package decision implements the hybrid access decision engine. A request
// is evaluated twice: once against contextual rules (source network,
// device, time of day) and once against an action rule set loaded from
// YAML. The two outcomes combine under deny-overrides semantics: only two
// clean allows grant access, an uncertain context downgrades an allowed
// action to review, and every other pairing denies.
package decision
