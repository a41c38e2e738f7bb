// Package snapshot implements the persistence contract shared by the
// file-backed authbridge drivers: each backend owns exactly one file holding
// a single YAML-serialized structure, and every mutation reads the current
// snapshot, applies the change in memory, and atomically replaces the file.
//
// Exclusive access is enforced with an advisory file lock held for the
// duration of one logical operation, so independent processes sharing a
// backend file never observe partial writes. There is no cross-store
// transaction; multi-store mutations are not atomic.
//
// Usage:
//
//	store := snapshot.New(snapshot.ResolvePath(dir, "authbridge_users.yaml"))
//
//	var data usersFile
//	err := store.Update(&data, func() error {
//	    data.Users["42"] = record{Name: "admin"}
//	    return nil
//	})
package snapshot
