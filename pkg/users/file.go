package users

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/hasher"
	"github.com/dmitrymomot/authbridge/pkg/snapshot"
)

// DefaultFileName is the snapshot file used when NewFile is given a
// directory instead of a full path.
const DefaultFileName = "authbridge_users.yaml"

type userRecord struct {
	Username   string         `yaml:"username"`
	Email      string         `yaml:"email,omitempty"`
	Salt       string         `yaml:"salt,omitempty"`
	Password   string         `yaml:"password,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
}

type fileData struct {
	LastID int64                 `yaml:"last_id"`
	Users  map[string]userRecord `yaml:"users"`
}

// GuestID is the reserved local id of the synthetic guest account.
const GuestID = "0"

// File is the snapshot-backed account driver.
type File struct {
	auth.Traits

	snap   *snapshot.Store
	cfg    Config
	shadow bool
	guest  bool
}

// Option customizes a File driver.
type Option func(*File)

// WithConfig overrides the hashing parameters.
func WithConfig(cfg Config) Option {
	return func(f *File) { f.cfg = cfg }
}

// WithoutShadowLogins stops the driver from materializing accounts for
// logins that succeeded elsewhere.
func WithoutShadowLogins() Option {
	return func(f *File) { f.shadow = false }
}

// WithGuest enables the synthetic guest account under GuestID. Guests can
// be force-logged-in and looked up, but never authenticate with a password
// and never appear in the snapshot.
func WithGuest() Option {
	return func(f *File) { f.guest = true }
}

// WithExclusive marks the driver as refusing to share its capability with
// other registered account drivers.
func WithExclusive() Option {
	return func(f *File) { f.Concurrent = false }
}

// NewFile opens a file-backed account driver at path. When path is an
// existing directory the snapshot lives in DefaultFileName inside it.
func NewFile(path string, opts ...Option) *File {
	f := &File{
		Traits: auth.Traits{Concurrent: true},
		snap:   snapshot.New(snapshot.ResolvePath(path, DefaultFileName)),
		cfg:    DefaultConfig(),
		shadow: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) hash(password, salt string) string {
	return hasher.PBKDF2(password, salt, f.cfg.Iterations, f.cfg.KeyLength)
}

// Authenticate validates the credentials against the stored PBKDF2 hash and
// returns the matching local id. Accounts provisioned by shadow logins
// carry no hash and never authenticate directly.
func (f *File) Authenticate(_ context.Context, user, password string) (string, error) {
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return "", err
	}
	id, rec, ok := findUser(data.Users, user)
	if !ok || rec.Password == "" || password == "" {
		return "", auth.ErrInvalidCredentials
	}
	if !hasher.Verify(password, rec.Salt, rec.Password, f.cfg.Iterations, f.cfg.KeyLength) {
		return "", auth.ErrInvalidCredentials
	}
	return id, nil
}

// ForceLogin verifies that the local id names an existing account.
func (f *File) ForceLogin(_ context.Context, localID string) error {
	if f.guest && localID == GuestID {
		return nil
	}
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return err
	}
	if _, ok := data.Users[localID]; !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, localID)
	}
	return nil
}

// Logout reports whether the local id named an account to log out. The
// backend keeps no login state of its own.
func (f *File) Logout(_ context.Context, localID string) (bool, error) {
	if f.guest && localID == GuestID {
		return true, nil
	}
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return false, err
	}
	_, ok := data.Users[localID]
	return ok, nil
}

// CreateUser stores a new account and returns its local id. The username
// must be unique; an "email" attribute is lifted onto the account itself.
func (f *File) CreateUser(_ context.Context, username, password string, attrs map[string]any) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt, err := hasher.Salt(f.cfg.SaltLength)
	if err != nil {
		return "", err
	}
	rec := userRecord{
		Username: username,
		Salt:     salt,
		Password: f.hash(password, salt),
	}
	rec.Email, rec.Attributes = splitEmail(attrs)

	return f.insert(rec)
}

// ShadowLogin finds the account matching the profile's username, creating
// one without a password when none exists, and returns its local id.
func (f *File) ShadowLogin(_ context.Context, profile auth.ShadowProfile) (string, error) {
	if !f.shadow {
		return "", ErrShadowDisabled
	}
	username := strings.TrimSpace(profile.Username)
	if username == "" {
		return "", ErrEmptyUsername
	}

	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		if existing, _, ok := findUser(data.Users, username); ok {
			id = existing
			return nil
		}
		if data.Users == nil {
			data.Users = make(map[string]userRecord)
		}
		data.LastID++
		id = strconv.FormatInt(data.LastID, 10)
		data.Users[id] = userRecord{
			Username:   username,
			Email:      profile.Email,
			Attributes: maps.Clone(profile.Attributes),
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateUser merges attributes into an account. A "username" attribute
// renames it (uniqueness enforced), an "email" attribute moves onto the
// account, and a "password" attribute is rejected.
func (f *File) UpdateUser(_ context.Context, localID string, attrs map[string]any) error {
	if _, ok := attrs["password"]; ok {
		return ErrPasswordViaUpdate
	}

	var data fileData
	return f.snap.Update(&data, func() error {
		rec, ok := data.Users[localID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUserNotFound, localID)
		}
		for k, v := range attrs {
			switch k {
			case "username":
				name, _ := v.(string)
				name = strings.TrimSpace(name)
				if name == "" {
					return ErrEmptyUsername
				}
				if id, _, taken := findUser(data.Users, name); taken && id != localID {
					return fmt.Errorf("%w: %s", ErrUserExists, name)
				}
				rec.Username = name
			case "email":
				rec.Email, _ = v.(string)
			default:
				if rec.Attributes == nil {
					rec.Attributes = make(map[string]any)
				}
				if v == nil {
					delete(rec.Attributes, k)
				} else {
					rec.Attributes[k] = v
				}
			}
		}
		data.Users[localID] = rec
		return nil
	})
}

// SetPassword replaces the account's password. The current password must
// verify, except for accounts that never had one.
func (f *File) SetPassword(_ context.Context, localID, newPassword, currentPassword string) error {
	if newPassword == "" {
		return ErrEmptyPassword
	}

	var data fileData
	return f.snap.Update(&data, func() error {
		rec, ok := data.Users[localID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUserNotFound, localID)
		}
		if rec.Password != "" &&
			!hasher.Verify(currentPassword, rec.Salt, rec.Password, f.cfg.Iterations, f.cfg.KeyLength) {
			return auth.ErrInvalidCredentials
		}
		salt, err := hasher.Salt(f.cfg.SaltLength)
		if err != nil {
			return err
		}
		rec.Salt = salt
		rec.Password = f.hash(newPassword, salt)
		data.Users[localID] = rec
		return nil
	})
}

// ResetPassword assigns a freshly generated password and returns it.
func (f *File) ResetPassword(_ context.Context, localID string) (string, error) {
	password, err := hasher.RandomString(f.cfg.ResetPasswordLength)
	if err != nil {
		return "", err
	}

	var data fileData
	err = f.snap.Update(&data, func() error {
		rec, ok := data.Users[localID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUserNotFound, localID)
		}
		salt, err := hasher.Salt(f.cfg.SaltLength)
		if err != nil {
			return err
		}
		rec.Salt = salt
		rec.Password = f.hash(password, salt)
		data.Users[localID] = rec
		return nil
	})
	if err != nil {
		return "", err
	}
	return password, nil
}

// DeleteUser removes the account behind the local id.
func (f *File) DeleteUser(_ context.Context, localID string) error {
	var data fileData
	return f.snap.Update(&data, func() error {
		if _, ok := data.Users[localID]; !ok {
			return fmt.Errorf("%w: %s", ErrUserNotFound, localID)
		}
		delete(data.Users, localID)
		return nil
	})
}

// GetUser returns the account behind the local id.
func (f *File) GetUser(_ context.Context, localID string) (auth.User, error) {
	if f.guest && localID == GuestID {
		return auth.User{ID: GuestID, Username: "guest"}, nil
	}
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return auth.User{}, err
	}
	rec, ok := data.Users[localID]
	if !ok {
		return auth.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, localID)
	}
	return auth.User{
		ID:         localID,
		Username:   rec.Username,
		Email:      rec.Email,
		Attributes: maps.Clone(rec.Attributes),
	}, nil
}

// LookupUser resolves a username or email address to a local id.
func (f *File) LookupUser(_ context.Context, nameOrEmail string) (string, error) {
	if f.guest && strings.EqualFold(nameOrEmail, "guest") {
		return GuestID, nil
	}
	var data fileData
	if err := f.snap.Load(&data); err != nil {
		return "", err
	}
	id, _, ok := findUser(data.Users, nameOrEmail)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, nameOrEmail)
	}
	return id, nil
}

// insert appends a record under a fresh local id, failing when the username
// is already taken.
func (f *File) insert(rec userRecord) (string, error) {
	var data fileData
	var id string
	err := f.snap.Update(&data, func() error {
		if data.Users == nil {
			data.Users = make(map[string]userRecord)
		}
		if _, _, taken := findUser(data.Users, rec.Username); taken {
			return fmt.Errorf("%w: %s", ErrUserExists, rec.Username)
		}
		data.LastID++
		id = strconv.FormatInt(data.LastID, 10)
		data.Users[id] = rec
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// findUser matches a username or email case-insensitively.
func findUser(users map[string]userRecord, nameOrEmail string) (string, userRecord, bool) {
	for id, rec := range users {
		if strings.EqualFold(rec.Username, nameOrEmail) ||
			(rec.Email != "" && strings.EqualFold(rec.Email, nameOrEmail)) {
			return id, rec, true
		}
	}
	return "", userRecord{}, false
}

// splitEmail lifts an "email" attribute off the free-form attribute map.
func splitEmail(attrs map[string]any) (string, map[string]any) {
	if attrs == nil {
		return "", nil
	}
	rest := maps.Clone(attrs)
	email, _ := rest["email"].(string)
	delete(rest, "email")
	if len(rest) == 0 {
		return email, nil
	}
	return email, rest
}
