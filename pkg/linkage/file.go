package linkage

import (
	"context"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/snapshot"
)

// DefaultFileName is the snapshot file used when NewFile is given a
// directory instead of a full path.
const DefaultFileName = "authbridge_linkage.yaml"

type fileData struct {
	LastIssued int64            `yaml:"last_issued"`
	Links      map[string]int64 `yaml:"links"`
}

// File is a linkage store backed by a locked YAML snapshot on disk. It is
// safe across processes on one host but does not support concurrent
// registration with another storage driver.
type File struct {
	auth.Traits

	snap *snapshot.Store
}

// NewFile opens a file-backed linkage store at path. When path is an
// existing directory the snapshot lives in DefaultFileName inside it.
func NewFile(path string) *File {
	return &File{snap: snapshot.New(snapshot.ResolvePath(path, DefaultFileName))}
}

// FindUnifiedUser resolves the unified id behind a set of login results,
// issuing a fresh id when none of them is linked yet and backfilling rows
// for any local id seen for the first time.
func (f *File) FindUnifiedUser(_ context.Context, locals map[string]string) (int64, error) {
	keys := keysFor(locals)
	if len(keys) == 0 {
		return auth.NoUser, nil
	}

	var data fileData
	var id int64
	err := f.snap.Update(&data, func() error {
		if data.Links == nil {
			data.Links = make(map[string]int64)
		}
		resolved, err := resolve(data.Links, keys)
		if err != nil {
			return err
		}
		if resolved == 0 {
			data.LastIssued++
			resolved = data.LastIssued
		}
		for _, k := range keys {
			if _, ok := data.Links[k]; !ok {
				data.Links[k] = resolved
			}
		}
		id = resolved
		return nil
	})
	if err != nil {
		return auth.NoUser, err
	}
	return id, nil
}

// GetUnifiedUsers returns every driver-local account id linked to the given
// unified id, keyed by driver name.
func (f *File) GetUnifiedUsers(_ context.Context, id int64) (map[string]string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for k, v := range data.Links {
		if v != id {
			continue
		}
		if driver, localID, ok := splitKey(k); ok {
			out[driver] = localID
		}
	}
	return out, nil
}

// DeleteUnifiedUser removes the links behind a set of login results and
// reports which unified id they belonged to. It never issues a new id:
// unknown links resolve to auth.NoUser and the snapshot stays untouched.
func (f *File) DeleteUnifiedUser(_ context.Context, locals map[string]string) (int64, error) {
	keys := keysFor(locals)
	if len(keys) == 0 {
		return auth.NoUser, nil
	}

	var data fileData
	var id int64
	err := f.snap.Update(&data, func() error {
		resolved, err := resolve(data.Links, keys)
		if err != nil {
			return err
		}
		if resolved == 0 {
			return errNoopDelete
		}
		for _, k := range keys {
			delete(data.Links, k)
		}
		id = resolved
		return nil
	})
	if err != nil {
		if err == errNoopDelete {
			return auth.NoUser, nil
		}
		return auth.NoUser, err
	}
	return id, nil
}
