package router

import "sync"

// Conversation states.
const (
	StateMainMenu        = "MAIN_MENU"
	StateAccountList     = "ACCOUNT_LIST"
	StateAccountDetail   = "ACCOUNT_DETAIL"
	StateConfirmClearAll = "CONFIRM_CLEAR_ALL"
	StateWaitingTemplate = "WAITING_FOR_TEMPLATE"
)

// Session is the conversation state of one user. It is built for every
// update and handed to the handler explicitly.
type Session struct {
	UserID int64
	ChatID int64

	State string
	Lang  string
	Page  int
	// CurrentAccount is the key of the account shown in the detail view.
	CurrentAccount string
}

type SessionStore interface {
	Get(userID int64) (Session, bool)
	Save(s Session)
}

// MemorySessionStore keeps sessions in process memory; they are lost on
// restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[int64]Session{}}
}

func (m *MemorySessionStore) Get(userID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

func (m *MemorySessionStore) Save(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
}
