package groups

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/snapshot"
)

// DefaultFileName is the snapshot file used when NewFile is given a
// directory instead of a full path.
const DefaultFileName = "authbridge_groups.yaml"

var (
	// ErrGroupExists is returned when a group name is already taken.
	ErrGroupExists = fmt.Errorf("%w: group name already taken", auth.ErrValidation)

	// ErrGroupNotFound is returned when an id or name matches no group.
	ErrGroupNotFound = fmt.Errorf("%w: no such group", auth.ErrNotFound)

	// ErrEmptyGroupName is returned when a group is created without a name.
	ErrEmptyGroupName = fmt.Errorf("%w: group name must not be empty", auth.ErrValidation)
)

type groupRecord struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
	Users      []int64        `yaml:"users,omitempty"`
}

type fileData struct {
	LastID int64                  `yaml:"last_id"`
	Groups map[string]groupRecord `yaml:"groups"`
}

// File is the snapshot-backed group driver. Group arguments throughout
// accept either a group id or a group name.
type File struct {
	auth.Traits

	snap *snapshot.Store
}

// NewFile opens a file-backed group driver at path. When path is an
// existing directory the snapshot lives in DefaultFileName inside it.
func NewFile(path string) *File {
	return &File{
		Traits: auth.Traits{Concurrent: true},
		snap:   snapshot.New(snapshot.ResolvePath(path, DefaultFileName)),
	}
}

// CreateGroup stores a new group and returns its id. Names are unique.
func (f *File) CreateGroup(_ context.Context, name string, attrs map[string]any) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyGroupName
	}

	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		if data.Groups == nil {
			data.Groups = make(map[string]groupRecord)
		}
		if _, _, ok := findGroup(data.Groups, name); ok {
			return fmt.Errorf("%w: %s", ErrGroupExists, name)
		}
		data.LastID++
		id = strconv.FormatInt(data.LastID, 10)
		data.Groups[id] = groupRecord{Name: name, Attributes: maps.Clone(attrs)}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateGroup merges attributes into a group. A "name" attribute renames it
// (uniqueness enforced). It returns the group's id.
func (f *File) UpdateGroup(_ context.Context, group string, attrs map[string]any) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		gid, rec, ok := findGroup(data.Groups, group)
		if !ok {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, group)
		}
		for k, v := range attrs {
			if k == "name" {
				name, _ := v.(string)
				name = strings.TrimSpace(name)
				if name == "" {
					return ErrEmptyGroupName
				}
				if other, _, taken := findGroup(data.Groups, name); taken && other != gid {
					return fmt.Errorf("%w: %s", ErrGroupExists, name)
				}
				rec.Name = name
				continue
			}
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]any)
			}
			if v == nil {
				delete(rec.Attributes, k)
			} else {
				rec.Attributes[k] = v
			}
		}
		data.Groups[gid] = rec
		id = gid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteGroup removes a group along with its membership list and returns
// the deleted group's id.
func (f *File) DeleteGroup(_ context.Context, group string) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		gid, _, ok := findGroup(data.Groups, group)
		if !ok {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, group)
		}
		delete(data.Groups, gid)
		id = gid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AssignUserToGroup adds a unified user id to the group's membership list
// and returns the group's id. Assigning twice is a no-op.
func (f *File) AssignUserToGroup(_ context.Context, group string, userID int64) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		gid, rec, ok := findGroup(data.Groups, group)
		if !ok {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, group)
		}
		if !slices.Contains(rec.Users, userID) {
			rec.Users = append(rec.Users, userID)
			data.Groups[gid] = rec
		}
		id = gid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveUserFromGroup drops a unified user id from the group's membership
// list and returns the group's id. Removing a non-member is a no-op.
func (f *File) RemoveUserFromGroup(_ context.Context, group string, userID int64) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		gid, rec, ok := findGroup(data.Groups, group)
		if !ok {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, group)
		}
		rec.Users = slices.DeleteFunc(rec.Users, func(u int64) bool { return u == userID })
		data.Groups[gid] = rec
		id = gid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AssignedGroups returns id -> name for every group the user belongs to.
func (f *File) AssignedGroups(_ context.Context, userID int64) (map[string]string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for id, rec := range data.Groups {
		if slices.Contains(rec.Users, userID) {
			out[id] = rec.Name
		}
	}
	return out, nil
}

// AllGroups returns id -> name for every group.
func (f *File) AllGroups(_ context.Context) (map[string]string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(data.Groups))
	for id, rec := range data.Groups {
		out[id] = rec.Name
	}
	return out, nil
}

// GetGroup returns the principal behind a group id or name.
func (f *File) GetGroup(_ context.Context, group string) (auth.Principal, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return auth.Principal{}, err
	}
	id, rec, ok := findGroup(data.Groups, group)
	if !ok {
		return auth.Principal{}, fmt.Errorf("%w: %s", ErrGroupNotFound, group)
	}
	return auth.Principal{ID: id, Name: rec.Name, Attributes: maps.Clone(rec.Attributes)}, nil
}

// IsMemberOf reports whether the unified user id belongs to the group.
func (f *File) IsMemberOf(_ context.Context, group string, userID int64) (bool, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return false, err
	}
	_, rec, ok := findGroup(data.Groups, group)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, group)
	}
	return slices.Contains(rec.Users, userID), nil
}

// OnEvent purges a deleted user's unified id from every membership list.
func (f *File) OnEvent(_ context.Context, event auth.Event) error {
	if event.Type != auth.EventDeleteUser || event.UserID == auth.NoUser {
		return nil
	}
	var data fileData
	return f.snap.Update(&data, func() error {
		for id, rec := range data.Groups {
			rec.Users = slices.DeleteFunc(rec.Users, func(u int64) bool { return u == event.UserID })
			data.Groups[id] = rec
		}
		return nil
	})
}

// findGroup matches a group id first, then a name case-insensitively.
func findGroup(groups map[string]groupRecord, group string) (string, groupRecord, bool) {
	if rec, ok := groups[group]; ok {
		return group, rec, true
	}
	for id, rec := range groups {
		if strings.EqualFold(rec.Name, group) {
			return id, rec, true
		}
	}
	return "", groupRecord{}, false
}
