// Package pg wraps the pgx/v5 connection pool with the small amount of
// plumbing the Postgres-backed drivers need: an environment-driven Config,
// a Connect helper that retries until the database comes up, and a health
// check closure for readiness endpoints.
package pg
