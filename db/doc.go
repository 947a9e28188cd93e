// Package db holds the SQL migration files. Production builds embed them
// via the embed_migrations build tag; development builds read them from
// disk instead.
package db
