// Package persistence implements the persistence capability: a small
// key-value contract used to keep a session's unified user id alive across
// requests and process restarts.
//
// Stores are deliberately dumb. They hold opaque strings against opaque
// keys; what goes into them is decided by the dispatcher. Three stores are
// provided: Memory (per-process), File (a locked YAML snapshot) and Redis
// (shared deployments, with optional expiry).
package persistence
