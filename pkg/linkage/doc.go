// Package linkage implements the storage capability: the durable mapping
// from per-driver local account ids onto unified user ids.
//
// Every linkage row keys "driverName::localID" to one unified id. Unified
// ids are issued monotonically, only when a login resolves no existing row.
// Resolving two different unified ids for one set of login results means the
// mapping is corrupt and fails loudly with auth.ErrIntegrity.
//
// Three stores are provided: File (a locked YAML snapshot, suitable for a
// single host), Memory (tests and ephemeral setups) and Postgres (shared
// deployments, serialized through an advisory transaction lock).
package linkage
