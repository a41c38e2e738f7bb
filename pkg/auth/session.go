package auth

import (
	"maps"

	"github.com/google/uuid"
)

// Session is the per-caller state the Manager operates on. It replaces the
// usual hidden "current user" field on the manager itself: callers own the
// session and pass it into every identity call, which keeps one Manager
// reentrant across many concurrent callers.
//
// A Session is not safe for concurrent use; one session belongs to one
// caller, mirroring how one persistence entry belongs to one browser
// session.
type Session struct {
	// Token identifies this session in the persistence driver. It is
	// generated on creation and stable for the session's lifetime.
	Token string

	userID int64
	locals map[string]string
}

// NewSession creates a logged-out session with a fresh token.
func NewSession() *Session {
	return &Session{Token: uuid.NewString()}
}

// ResumeSession creates a logged-out session with a known token, typically
// recovered from a cookie, so Manager.Check can restore the identity the
// persistence driver holds for it.
func ResumeSession(token string) *Session {
	return &Session{Token: token}
}

// UserID returns the unified id of the logged-in user, or NoUser.
func (s *Session) UserID() int64 {
	return s.userID
}

// IsLoggedIn reports whether the session carries a unified identity.
func (s *Session) IsLoggedIn() bool {
	return s.userID != NoUser
}

// IsGuest reports the inverse of IsLoggedIn.
func (s *Session) IsGuest() bool {
	return !s.IsLoggedIn()
}

// Local returns the local account id the named driver authenticated for
// this session.
func (s *Session) Local(driver string) (string, bool) {
	id, ok := s.locals[driver]
	return id, ok
}

// Locals returns a copy of the driver name -> local id map.
func (s *Session) Locals() map[string]string {
	return maps.Clone(s.locals)
}

func (s *Session) setUser(id int64, locals map[string]string) {
	s.userID = id
	s.locals = maps.Clone(locals)
}

func (s *Session) clear() {
	s.userID = NoUser
	s.locals = nil
}
