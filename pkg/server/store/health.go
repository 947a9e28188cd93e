package store

// HealthStore reports whether the findings database is reachable. The
// status endpoint uses it to distinguish a degraded server from a healthy
// one.
type HealthStore interface {
	// CheckConnectivity returns an error when the database cannot be reached
	CheckConnectivity() error
}
