package session

import (
	"context"
	"sort"
	"sync"

	"github.com/datamonkey-labs/dmchat/internal/logger"
	"github.com/datamonkey-labs/dmchat/internal/model"
)

const logModule = "session"

// LoadState tracks progress of the most recent Load.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Lister fetches the session list from the chat backend.
type Lister interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger for load and persistence failures.
func WithStoreLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		s.log = l
	}
}

// Store holds the session list and the active session, and keeps the
// active id in a PreferenceStore so it survives restarts.
type Store struct {
	lister Lister
	prefs  PreferenceStore
	log    logger.Logger

	mu       sync.RWMutex
	sessions []model.Session
	active   string
	state    LoadState
}

// NewStore creates a Store. The list starts empty with no active session.
func NewStore(lister Lister, prefs PreferenceStore, opts ...StoreOption) *Store {
	s := &Store{
		lister:   lister,
		prefs:    prefs,
		log:      logger.NewNop(),
		sessions: []model.Session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the session list and picks the active session. A persisted
// id that is still listed wins; otherwise the most recently updated session
// becomes active and is persisted. Failures are logged and leave the list
// empty with no active session; the persisted id is kept for the next load.
func (s *Store) Load(ctx context.Context) []model.Session {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	fetched, err := s.lister.ListSessions(ctx)
	if err != nil {
		s.log.Error(logModule, "failed to load sessions", map[string]interface{}{"error": err})
		s.mu.Lock()
		s.sessions = []model.Session{}
		s.active = ""
		s.state = StateReady
		s.mu.Unlock()
		return []model.Session{}
	}

	sessions := make([]model.Session, len(fetched))
	copy(sessions, fetched)

	persisted := s.persistedID()
	active, changed := pickActive(sessions, persisted)

	s.mu.Lock()
	s.sessions = sessions
	s.active = active
	s.state = StateReady
	out := s.copySessions()
	s.mu.Unlock()

	if changed {
		if err := s.prefs.Set(active); err != nil {
			s.log.Error(logModule, "failed to persist active session", map[string]interface{}{
				"session": active,
				"error":   err,
			})
		}
	}
	return out
}

// pickActive returns the active id for sessions and whether it differs from
// persisted and must be saved.
func pickActive(sessions []model.Session, persisted string) (string, bool) {
	if persisted != "" && containsSession(sessions, persisted) {
		return persisted, false
	}
	if len(sessions) == 0 {
		return "", false
	}

	ordered := make([]model.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Updated.After(ordered[j].Updated)
	})
	return ordered[0].ID, true
}

// Select makes id the active session and persists it. The in-memory value
// is updated even when persistence fails.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()

	if err := s.prefs.Set(id); err != nil {
		s.log.Error(logModule, "failed to persist active session", map[string]interface{}{
			"session": id,
			"error":   err,
		})
		return err
	}
	return nil
}

// StartNew clears the active session. The backend creates the session on
// the first message, so nothing is sent here.
func (s *Store) StartNew() error {
	s.mu.Lock()
	s.active = ""
	s.mu.Unlock()

	if err := s.prefs.Clear(); err != nil {
		s.log.Error(logModule, "failed to clear active session", map[string]interface{}{"error": err})
		return err
	}
	return nil
}

// Active returns the active session id.
func (s *Store) Active() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

// Sessions returns the last loaded list in backend order.
func (s *Store) Sessions() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySessions()
}

// State returns the load state.
func (s *Store) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// persistedID reads the preference; a read failure counts as absent.
func (s *Store) persistedID() string {
	id, ok, err := s.prefs.Get()
	if err != nil {
		s.log.Warn(logModule, "failed to read persisted session, ignoring", map[string]interface{}{"error": err})
		return ""
	}
	if !ok {
		return ""
	}
	return id
}

func (s *Store) copySessions() []model.Session {
	out := make([]model.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func containsSession(sessions []model.Session, id string) bool {
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
