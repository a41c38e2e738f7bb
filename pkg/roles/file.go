package roles

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
const DefaultFileName = "authbridge_roles.yaml"

var (
	// ErrRoleExists is returned when a role name is already taken.
	ErrRoleExists = fmt.Errorf("%w: role name already taken", auth.ErrValidation)

	// ErrRoleNotFound is returned when an id or name matches no role.
	ErrRoleNotFound = fmt.Errorf("%w: no such role", auth.ErrNotFound)

	// ErrEmptyRoleName is returned when a role is created without a name.
	ErrEmptyRoleName = fmt.Errorf("%w: role name must not be empty", auth.ErrValidation)
)

type roleRecord struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
	Users      []int64        `yaml:"users,omitempty"`
}

type fileData struct {
	LastID int64                 `yaml:"last_id"`
	Roles  map[string]roleRecord `yaml:"roles"`
}

// File is the snapshot-backed role driver. Role arguments throughout accept
// either a role id or a role name.
type File struct {
	auth.Traits

	snap *snapshot.Store
}

// NewFile opens a file-backed role driver at path. When path is an existing
// directory the snapshot lives in DefaultFileName inside it.
func NewFile(path string) *File {
	return &File{
		Traits: auth.Traits{Concurrent: true},
		snap:   snapshot.New(snapshot.ResolvePath(path, DefaultFileName)),
	}
}

// CreateRole stores a new role and returns its id. Names are unique.
func (f *File) CreateRole(_ context.Context, name string, attrs map[string]any) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyRoleName
	}

	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		if data.Roles == nil {
			data.Roles = make(map[string]roleRecord)
		}
		if _, _, ok := findRole(data.Roles, name); ok {
			return fmt.Errorf("%w: %s", ErrRoleExists, name)
		}
		data.LastID++
		id = strconv.FormatInt(data.LastID, 10)
		data.Roles[id] = roleRecord{Name: name, Attributes: maps.Clone(attrs)}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateRole merges attributes into a role. A "name" attribute renames it
// (uniqueness enforced). It returns the role's id.
func (f *File) UpdateRole(_ context.Context, role string, attrs map[string]any) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		rid, rec, ok := findRole(data.Roles, role)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
		}
		for k, v := range attrs {
			if k == "name" {
				name, _ := v.(string)
				name = strings.TrimSpace(name)
				if name == "" {
					return ErrEmptyRoleName
				}
				if other, _, taken := findRole(data.Roles, name); taken && other != rid {
					return fmt.Errorf("%w: %s", ErrRoleExists, name)
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
		data.Roles[rid] = rec
		id = rid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteRole removes a role along with its membership list and returns the
// deleted role's id.
func (f *File) DeleteRole(_ context.Context, role string) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		rid, _, ok := findRole(data.Roles, role)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
		}
		delete(data.Roles, rid)
		id = rid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AssignUserToRole adds a unified user id to the role's membership list and
// returns the role's id. Assigning twice is a no-op.
func (f *File) AssignUserToRole(_ context.Context, role string, userID int64) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		rid, rec, ok := findRole(data.Roles, role)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
		}
		if !slices.Contains(rec.Users, userID) {
			rec.Users = append(rec.Users, userID)
			data.Roles[rid] = rec
		}
		id = rid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveUserFromRole drops a unified user id from the role's membership
// list and returns the role's id. Removing a non-holder is a no-op.
func (f *File) RemoveUserFromRole(_ context.Context, role string, userID int64) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		rid, rec, ok := findRole(data.Roles, role)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
		}
		rec.Users = slices.DeleteFunc(rec.Users, func(u int64) bool { return u == userID })
		data.Roles[rid] = rec
		id = rid
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AssignedRoles returns id -> name for every role the user holds.
func (f *File) AssignedRoles(_ context.Context, userID int64) (map[string]string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for id, rec := range data.Roles {
		if slices.Contains(rec.Users, userID) {
			out[id] = rec.Name
		}
	}
	return out, nil
}

// AllRoles returns id -> name for every role.
func (f *File) AllRoles(_ context.Context) (map[string]string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(data.Roles))
	for id, rec := range data.Roles {
		out[id] = rec.Name
	}
	return out, nil
}

// GetRole returns the principal behind a role id or name.
func (f *File) GetRole(_ context.Context, role string) (auth.Principal, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return auth.Principal{}, err
	}
	id, rec, ok := findRole(data.Roles, role)
	if !ok {
		return auth.Principal{}, fmt.Errorf("%w: %s", ErrRoleNotFound, role)
	}
	return auth.Principal{ID: id, Name: rec.Name, Attributes: maps.Clone(rec.Attributes)}, nil
}

// HasRole reports whether the unified user id holds the role.
func (f *File) HasRole(_ context.Context, role string, userID int64) (bool, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return false, err
	}
	_, rec, ok := findRole(data.Roles, role)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrRoleNotFound, role)
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
		for id, rec := range data.Roles {
			rec.Users = slices.DeleteFunc(rec.Users, func(u int64) bool { return u == event.UserID })
			data.Roles[id] = rec
		}
		return nil
	})
}

// findRole matches a role id first, then a name case-insensitively.
func findRole(roles map[string]roleRecord, role string) (string, roleRecord, bool) {
	if rec, ok := roles[role]; ok {
		return role, rec, true
	}
	for id, rec := range roles {
		if strings.EqualFold(rec.Name, role) {
			return id, rec, true
		}
	}
	return "", roleRecord{}, false
}
