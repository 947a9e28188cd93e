// Package store defines the storage interfaces consumed by the HTTP
// endpoints. Implementations live in subpackages.
package store
