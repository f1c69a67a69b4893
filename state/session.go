package state

import (
	"sync"

	"shopfront/models"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseUpdating       Phase = "updating" // profile edit in flight, still authenticated
)

// ProfileUpdate carries a partial profile edit. Nil fields are left as-is.
type ProfileUpdate struct {
	Name          *string
	Phone         *string
	Addresses     *[]models.Address
	Notifications *models.NotificationSettings
}

// SessionStore tracks the authenticated-user session. A nil session
// means anonymous visitor. Subscribers receive the session pointer
// after every transition; nil tells the persistence layer to delete
// the stored record.
type SessionStore struct {
	mu      sync.Mutex
	phase   Phase
	session *models.Session
	lastErr error
	subs    []func(*models.Session)
}

func NewSessionStore() *SessionStore {
	return &SessionStore{phase: PhaseAnonymous}
}

func (s *SessionStore) Subscribe(fn func(*models.Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Load rehydrates a persisted session. A snapshot without a user record
// is treated as anonymous.
func (s *SessionStore) Load(sess models.Session) {
	s.mu.Lock()
	if sess.User == nil {
		s.phase = PhaseAnonymous
		s.session = nil
	} else {
		s.phase = PhaseAuthenticated
		s.session = cloneSession(&sess)
	}
	s.mu.Unlock()
}

// Begin marks a login or registration attempt as in flight.
func (s *SessionStore) Begin() {
	s.mu.Lock()
	s.phase = PhaseAuthenticating
	s.lastErr = nil
	s.mu.Unlock()
}

// Complete commits a successful login/registration. Concurrent attempts
// are not guarded; the last caller's result wins.
func (s *SessionStore) Complete(sess models.Session) {
	s.mu.Lock()
	s.phase = PhaseAuthenticated
	s.session = cloneSession(&sess)
	s.lastErr = nil
	snap := cloneSession(s.session)
	s.mu.Unlock()

	s.notify(snap)
}

// Fail records a failed attempt and returns to anonymous.
func (s *SessionStore) Fail(err error) {
	s.mu.Lock()
	s.phase = PhaseAnonymous
	s.session = nil
	s.lastErr = err
	s.mu.Unlock()

	s.notify(nil)
}

// Logout clears the session. Terminal for the current session; there is
// no undo.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.phase = PhaseAnonymous
	s.session = nil
	s.lastErr = nil
	s.mu.Unlock()

	s.notify(nil)
}

// SetTokens swaps in a fresh token pair after a refresh. No-op when
// anonymous.
func (s *SessionStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}
	s.session.AccessToken = access
	s.session.RefreshToken = refresh
	snap := cloneSession(s.session)
	s.mu.Unlock()

	s.notify(snap)
}

// UpdateProfile merges a partial edit into the user record. No-op when
// not authenticated.
func (s *SessionStore) UpdateProfile(update ProfileUpdate) {
	s.mu.Lock()
	if s.session == nil || s.session.User == nil {
		s.mu.Unlock()
		return
	}
	if update.Name != nil {
		s.session.User.Name = *update.Name
	}
	if update.Phone != nil {
		s.session.User.Phone = *update.Phone
	}
	if update.Addresses != nil {
		s.session.User.Addresses = *update.Addresses
	}
	if update.Notifications != nil {
		s.session.User.Notifications = *update.Notifications
	}
	s.phase = PhaseAuthenticated
	snap := cloneSession(s.session)
	s.mu.Unlock()

	s.notify(snap)
}

// BeginUpdate marks a profile edit as in flight.
func (s *SessionStore) BeginUpdate() {
	s.mu.Lock()
	if s.phase == PhaseAuthenticated {
		s.phase = PhaseUpdating
	}
	s.mu.Unlock()
}

// EndUpdate returns from the updating sub-state without changing the
// user record (used when the remote edit fails).
func (s *SessionStore) EndUpdate() {
	s.mu.Lock()
	if s.phase == PhaseUpdating {
		s.phase = PhaseAuthenticated
	}
	s.mu.Unlock()
}

// Current returns a copy of the session, and whether one exists.
func (s *SessionStore) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.Session{}, false
	}
	return *cloneSession(s.session), true
}

func (s *SessionStore) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *SessionStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// cloneSession deep-copies the session, including the user record and
// its address list, so a published snapshot never aliases the store's
// internal state.
func cloneSession(sess *models.Session) *models.Session {
	if sess == nil {
		return nil
	}
	copied := *sess
	if sess.User != nil {
		user := *sess.User
		user.Addresses = append([]models.Address{}, sess.User.Addresses...)
		copied.User = &user
	}
	return &copied
}

func (s *SessionStore) notify(snap *models.Session) {
	s.mu.Lock()
	subs := make([]func(*models.Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
