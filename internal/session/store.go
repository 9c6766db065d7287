// Package session holds the client-wide state: who is signed in, what is in
// the cart and whether the login dialog is showing. A single Store is built at
// start-up and handed to every consumer.
//
// The store owns persistence. SetSession and SetCart write storage before
// touching memory, so the two never diverge: if the write fails the in-memory
// value is left as it was and the error is returned.
package session

import (
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// LoginMode selects the tab the login dialog opens on.
type LoginMode string

const (
	LoginModeSignIn LoginMode = "signin"
	LoginModeSignUp LoginMode = "signup"
)

// Snapshot is a copy of the store state delivered to subscribers.
type Snapshot struct {
	Session         *models.UserSession
	Cart            *models.Cart
	LoginDialogOpen bool
	LoginMode       LoginMode
}

// Store is the session/cart state shared by the whole UI.
type Store struct {
	mu              sync.RWMutex
	storage         *storage.Storage
	logger          *zap.Logger
	session         *models.UserSession
	cart            *models.Cart
	loginDialogOpen bool
	loginMode       LoginMode

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(Snapshot)
}

// NewStore creates a Store initialised from persisted storage. A missing or
// unreadable session or cart simply starts as nil.
func NewStore(st *storage.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage:     st,
		logger:      logger,
		loginMode:   LoginModeSignIn,
		subscribers: make(map[int]func(Snapshot)),
	}
	s.session = storage.GetItem[models.UserSession](st, storage.KeyUserSession)
	s.cart = storage.GetItem[models.Cart](st, storage.KeyCart)

	logger.Debug("session store loaded",
		zap.Bool("signed_in", s.session != nil),
		zap.Bool("has_cart", s.cart != nil),
	)
	return s
}

// Session returns a copy of the current session, or nil.
func (s *Store) Session() *models.UserSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// SignedIn reports whether a session is present.
func (s *Store) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// IsAdmin reports whether the current session belongs to an admin.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.IsAdmin
}

// Cart returns a copy of the current cart, or nil.
func (s *Store) Cart() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// SetSession persists session and makes it current. nil signs the user out
// without touching the cart.
func (s *Store) SetSession(session *models.UserSession) error {
	s.mu.Lock()
	if err := s.persistSession(session); err != nil {
		s.mu.Unlock()
		return err
	}
	s.session = session.Clone()
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetCart persists cart and makes it current. The cart replaces the previous
// one wholesale; the last call wins.
func (s *Store) SetCart(cart *models.Cart) error {
	s.mu.Lock()
	if err := s.persistCart(cart); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cart = cart.Clone()
	s.mu.Unlock()

	s.notify()
	return nil
}

// Logout clears the session and the cart.
func (s *Store) Logout() error {
	s.mu.Lock()
	if err := s.persistSession(nil); err != nil {
		s.mu.Unlock()
		return err
	}
	s.session = nil
	if err := s.persistCart(nil); err != nil {
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.cart = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// LoginDialogOpen reports whether the login dialog is showing.
func (s *Store) LoginDialogOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginDialogOpen
}

// LoginMode returns the tab the login dialog shows.
func (s *Store) LoginMode() LoginMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginMode
}

// HandleLoginDialogOpen sets the dialog visibility and tab in one step.
func (s *Store) HandleLoginDialogOpen(open bool, mode LoginMode) {
	if mode != LoginModeSignUp {
		mode = LoginModeSignIn
	}
	s.mu.Lock()
	s.loginDialogOpen = open
	s.loginMode = mode
	s.mu.Unlock()

	s.notify()
}

// OpenLoginDialog shows the login dialog on the given tab.
func (s *Store) OpenLoginDialog(mode LoginMode) {
	s.HandleLoginDialogOpen(true, mode)
}

// CloseLoginDialog hides the login dialog and keeps the current tab.
func (s *Store) CloseLoginDialog() {
	s.mu.Lock()
	s.loginDialogOpen = false
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Session:         s.session.Clone(),
		Cart:            s.cart.Clone(),
		LoginDialogOpen: s.loginDialogOpen,
		LoginMode:       s.loginMode,
	}
}

func (s *Store) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) persistSession(session *models.UserSession) error {
	var err error
	if session == nil {
		err = s.storage.Remove(storage.KeyUserSession)
	} else {
		err = storage.SetItem(s.storage, storage.KeyUserSession, session)
	}
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *Store) persistCart(cart *models.Cart) error {
	var err error
	if cart == nil {
		err = s.storage.Remove(storage.KeyCart)
	} else {
		err = storage.SetItem(s.storage, storage.KeyCart, cart)
	}
	if err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
