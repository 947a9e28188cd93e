// Package config handles layered configuration: defaults, then the
// ztguard.yml config file, then ZTGUARD_* environment variables. The
// source of every value is tracked and reportable.
package config
