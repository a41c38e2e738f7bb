package persistence

import (
	"context"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/snapshot"
)

// DefaultFileName is the snapshot file used when NewFile is given a
// directory instead of a full path.
const DefaultFileName = "authbridge_persistence.yaml"

type persistData struct {
	Entries map[string]string `yaml:"entries"`
}

// File is a persistence store backed by a locked YAML snapshot on disk.
type File struct {
	auth.Traits

	snap *snapshot.Store
}

// NewFile opens a file-backed persistence store at path. When path is an
// existing directory the snapshot lives in DefaultFileName inside it.
func NewFile(path string) *File {
	return &File{snap: snapshot.New(snapshot.ResolvePath(path, DefaultFileName))}
}

// Get returns the value stored under key and whether it exists.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	var data persistData
	if err := f.snap.Load(&data); err != nil {
		return "", false, err
	}
	v, ok := data.Entries[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (f *File) Set(_ context.Context, key, value string) error {
	var data persistData
	return f.snap.Update(&data, func() error {
		if data.Entries == nil {
			data.Entries = make(map[string]string)
		}
		data.Entries[key] = value
		return nil
	})
}

// Delete removes key and reports whether it existed.
func (f *File) Delete(_ context.Context, key string) (bool, error) {
	var data persistData
	var existed bool
	err := f.snap.Update(&data, func() error {
		_, existed = data.Entries[key]
		delete(data.Entries, key)
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}
