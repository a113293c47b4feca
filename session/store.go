package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"pos-service/access"
	"pos-service/models"
)

var errTokenExpired = errors.New("token expired")

// Store maps bearer tokens to sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for expiry checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Create opens a session for token and logs the user into its gate. The
// session is stored even when the role cannot be resolved; the gate then
// denies every page and the error is returned alongside the session.
func (s *Store) Create(token string, user models.User, roles []models.Role) (*Session, error) {
	sess := newSession(token, s.now())
	err := sess.Gate.Login(user, roles)

	s.mu.Lock()
	if old, ok := s.sessions[token]; ok {
		old.Gate.Logout()
	}
	s.sessions[token] = sess
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"session_id": sess.ID,
		"username":   user.Username,
		"role":       user.Role,
		"state":      sess.Gate.State().String(),
	}).Info("session created")
	return sess, err
}

// Get returns the session for token. A session whose token has expired is
// dropped and reported as an AuthError.
func (s *Store) Get(token string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, &models.AuthError{}
	}
	if access.TokenExpired(token, s.now()) {
		s.expire(token)
		return nil, &models.AuthError{Err: errTokenExpired}
	}
	return sess, nil
}

// Delete logs the session out and forgets it.
func (s *Store) Delete(token string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		sess.Gate.Logout()
	}
	return ok
}

// Expire forgets the session after the backend rejected its token.
func (s *Store) Expire(token string) {
	s.expire(token)
}

func (s *Store) expire(token string) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		sess.Gate.Expire()
		log.WithField("session_id", sess.ID).Info("session expired")
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
