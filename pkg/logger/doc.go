// Package logger provides slog helpers shared across authbridge: a small
// factory for building configured *slog.Logger instances and typed attribute
// constructors so log fields keep consistent keys across packages.
package logger
