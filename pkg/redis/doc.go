// Package redis wraps go-redis connection setup for the Redis-backed
// persistence store: an environment-driven Config, a Connect helper that
// retries until the server answers, and a health check closure for
// readiness endpoints.
package redis
