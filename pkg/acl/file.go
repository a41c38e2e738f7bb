package acl

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/snapshot"
)

// DefaultFileName is the snapshot file used when NewFile is given a
// directory instead of a full path.
const DefaultFileName = "authbridge_acl.yaml"

type grant struct {
	Actions []string `yaml:"actions"`
	Revoke  bool     `yaml:"revoke,omitempty"`
}

type fileData struct {
	// Permissions maps full dot-separated names to their action sets. An
	// entry with no actions is a namespace parent.
	Permissions map[string][]string `yaml:"permissions"`
	// Assignments is keyed principal ("type::value") -> permission name.
	Assignments map[string]map[string]grant `yaml:"assignments,omitempty"`
}

// File is the snapshot-backed permission driver. It validates assignment
// targets through the resolver bound at registration time; without one,
// principals are taken on faith.
type File struct {
	auth.Traits

	snap     *snapshot.Store
	resolver auth.PrincipalResolver
}

// NewFile opens a file-backed permission driver at path. When path is an
// existing directory the snapshot lives in DefaultFileName inside it.
func NewFile(path string) *File {
	return &File{
		Traits: auth.Traits{Concurrent: true},
		snap:   snapshot.New(snapshot.ResolvePath(path, DefaultFileName)),
	}
}

// BindResolver wires in the principal resolver used to validate assignment
// targets.
func (f *File) BindResolver(r auth.PrincipalResolver) {
	f.resolver = r
}

// CreatePermission defines a new permission. An empty action set creates a
// namespace parent that exists only to hold children.
func (f *File) CreatePermission(_ context.Context, name string, actions []string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPermissionName, name)
	}

	var data fileData
	return f.snap.Update(&data, func() error {
		if data.Permissions == nil {
			data.Permissions = make(map[string][]string)
		}
		if _, ok := data.Permissions[name]; ok {
			return fmt.Errorf("%w: %s", ErrPermissionExists, name)
		}
		data.Permissions[name] = slices.Clone(actions)
		return nil
	})
}

// UpdatePermission replaces a leaf permission's action set. Namespace
// parents can not be updated into leaves. Assignments holding actions that
// were removed are left alone; the dispatcher treats them as dead weight
// rather than rewriting history.
func (f *File) UpdatePermission(_ context.Context, name string, actions []string) error {
	var data fileData
	return f.snap.Update(&data, func() error {
		if _, ok := data.Permissions[name]; !ok {
			return fmt.Errorf("%w: %s", ErrPermissionNotFound, name)
		}
		if hasChildren(data.Permissions, name) {
			return fmt.Errorf("%w: %s", ErrNotLeaf, name)
		}
		data.Permissions[name] = slices.Clone(actions)
		return nil
	})
}

// DeletePermission removes a permission, every permission underneath it and
// every assignment pointing into the removed subtree. Action-less parents
// left without children disappear as well.
func (f *File) DeletePermission(_ context.Context, name string) error {
	var data fileData
	return f.snap.Update(&data, func() error {
		doomed := subtree(data.Permissions, name)
		if len(doomed) == 0 {
			return fmt.Errorf("%w: %s", ErrPermissionNotFound, name)
		}
		for _, p := range doomed {
			delete(data.Permissions, p)
		}

		// Walk ancestors bottom-up, dropping namespace parents that just
		// lost their last child.
		for parent := parentOf(name); parent != ""; parent = parentOf(parent) {
			actions, ok := data.Permissions[parent]
			if !ok || len(actions) > 0 || hasChildren(data.Permissions, parent) {
				break
			}
			delete(data.Permissions, parent)
			doomed = append(doomed, parent)
		}

		for principal, grants := range data.Assignments {
			for _, p := range doomed {
				delete(grants, p)
			}
			if len(grants) == 0 {
				delete(data.Assignments, principal)
			}
		}
		return nil
	})
}

// AssignPermissionTo stores a grant (or, with revoke, a revocation) of a
// subset of the permission's actions for the principal identified by type
// and value. A repeated assignment for the same pair replaces the previous
// one.
func (f *File) AssignPermissionTo(ctx context.Context, principalType, principalValue, name string, actions []string, revoke bool) error {
	var data fileData
	return f.snap.Update(&data, func() error {
		defined, ok := data.Permissions[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPermissionNotFound, name)
		}
		for _, a := range actions {
			if !slices.Contains(defined, a) {
				return fmt.Errorf("%w: %s on %s", ErrActionNotDefined, a, name)
			}
		}
		if strings.TrimSpace(principalValue) == "" {
			return ErrEmptyPrincipal
		}
		if f.resolver != nil {
			if err := f.resolver.ResolvePrincipal(ctx, principalType, principalValue); err != nil {
				return err
			}
		}

		if data.Assignments == nil {
			data.Assignments = make(map[string]map[string]grant)
		}
		key := principalKey(principalType, principalValue)
		if data.Assignments[key] == nil {
			data.Assignments[key] = make(map[string]grant)
		}
		data.Assignments[key][name] = grant{Actions: slices.Clone(actions), Revoke: revoke}
		return nil
	})
}

// GetPermission returns the action set defined on a permission.
func (f *File) GetPermission(_ context.Context, name string) ([]string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	actions, ok := data.Permissions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPermissionNotFound, name)
	}
	return slices.Clone(actions), nil
}

// AssignmentsFor returns every assignment held by the given principal,
// keyed by permission name.
func (f *File) AssignmentsFor(_ context.Context, principalType, principalValue string) (map[string]auth.Assignment, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return nil, err
	}
	out := make(map[string]auth.Assignment)
	for name, g := range data.Assignments[principalKey(principalType, principalValue)] {
		out[name] = auth.Assignment{Actions: slices.Clone(g.Actions), Revoke: g.Revoke}
	}
	return out, nil
}

func principalKey(principalType, principalValue string) string {
	return principalType + "::" + principalValue
}

// validName accepts dot-separated names with non-empty segments. Wildcards
// belong in permission checks, not in definitions.
func validName(name string) bool {
	if name == "" || strings.Contains(name, "*") {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if strings.TrimSpace(seg) == "" {
			return false
		}
	}
	return true
}

// subtree returns name and every permission nested under it.
func subtree(permissions map[string][]string, name string) []string {
	var out []string
	prefix := name + "."
	for p := range permissions {
		if p == name || strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func hasChildren(permissions map[string][]string, name string) bool {
	prefix := name + "."
	for p := range permissions {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func parentOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[:i]
}
