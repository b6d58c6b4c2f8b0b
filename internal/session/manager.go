// Package session owns the identity state: who is logged in, the
// login/logout transitions and whether the app runs against the remote
// backend or local-only.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/andikura/sipola_backend_v1/internal/gateway"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/store"
)

// ErrBadCredentials is returned by Login when the credentials do not
// match; the session is left untouched.
var ErrBadCredentials = errors.New("invalid credentials")

// Fixed viewer credentials for the remote monitoring sign-in.
const (
	viewerUsername = "viewer"
	viewerPassword = "viewer123"
)

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

type Manager struct {
	mu      sync.Mutex
	st      *store.Store
	gw      gateway.Gateway
	current *models.Session
	state   State
}

func New(st *store.Store, gw gateway.Gateway) *Manager {
	return &Manager{st: st, gw: gw}
}

func (m *Manager) RemoteMode() bool { return m.gw.Configured() }

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the active session, or nil when logged out.
func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Restore re-establishes the persisted identity on startup. In remote
// mode the persisted id must still resolve to a profile; any failure
// leaves the session unset without error so the caller falls through to
// the login flow. In local mode the persisted session is trusted
// verbatim.
func (m *Manager) Restore(ctx context.Context) error {
	var sess models.Session
	ok, err := m.st.GetJSON(store.KeySession, &sess)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if m.gw.Configured() {
		if sess.ID == "" {
			return nil
		}
		profile, err := m.gw.FetchProfile(ctx, sess.ID)
		if err != nil {
			log.Printf("session: restore profile fetch: %v", err)
			return nil
		}
		sess = models.Session{ID: profile.ID, Name: profile.Name, Role: profile.Role}
	}

	m.setAuthenticated(sess)
	return nil
}

// Login performs the credential exchange. In remote mode a successful
// sign-in whose profile lookup fails still authenticates, with a minimal
// least-privilege profile, instead of leaving the operator stranded on
// the login screen.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.Session, error) {
	m.mu.Lock()
	prev := m.state
	m.state = StateAuthenticating
	m.mu.Unlock()

	sess, err := m.exchange(ctx, username, password)
	if err != nil {
		m.mu.Lock()
		m.state = prev
		m.mu.Unlock()
		return nil, err
	}

	m.setAuthenticated(*sess)
	return sess, nil
}

func (m *Manager) exchange(ctx context.Context, username, password string) (*models.Session, error) {
	if m.gw.Configured() {
		userID, err := m.gw.SignIn(ctx, username, password)
		if err != nil {
			return nil, ErrBadCredentials
		}
		profile, err := m.gw.FetchProfile(ctx, userID)
		if err != nil {
			log.Printf("session: login profile fetch: %v", err)
			return &models.Session{ID: userID, Name: username, Role: models.RoleViewer}, nil
		}
		return &models.Session{ID: profile.ID, Name: profile.Name, Role: profile.Role}, nil
	}

	acc, ok := models.FindAccount(username, password)
	if !ok {
		return nil, ErrBadCredentials
	}
	return &models.Session{Name: acc.Name, Role: acc.Role}, nil
}

// LoginAsViewer enters the read-mostly monitoring session. The remote
// sign-in is attempted first when configured; any failure silently falls
// back to a local viewer session so viewer entry never blocks.
func (m *Manager) LoginAsViewer(ctx context.Context) *models.Session {
	sess := models.Session{Name: "Viewer", Role: models.RoleViewer}
	if m.gw.Configured() {
		if userID, err := m.gw.SignIn(ctx, viewerUsername, viewerPassword); err == nil {
			if profile, err := m.gw.FetchProfile(ctx, userID); err == nil {
				sess = models.Session{ID: profile.ID, Name: profile.Name, Role: profile.Role}
			} else {
				sess.ID = userID
			}
		}
	}
	m.setAuthenticated(sess)
	s := sess
	return &s
}

// Logout invalidates the remote session if present and clears the
// persisted identity.
func (m *Manager) Logout(ctx context.Context) {
	if m.gw.Configured() {
		if err := m.gw.SignOut(ctx); err != nil {
			log.Printf("session: remote sign out: %v", err)
		}
	}
	m.mu.Lock()
	m.current = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if err := m.st.Remove(store.KeySession); err != nil {
		log.Printf("session: clear persisted session: %v", err)
	}
	if err := m.st.Remove(store.KeyScreen); err != nil {
		log.Printf("session: clear persisted screen: %v", err)
	}
}

func (m *Manager) setAuthenticated(sess models.Session) {
	m.mu.Lock()
	m.current = &sess
	m.state = StateAuthenticated
	m.mu.Unlock()

	if err := m.st.SetJSON(store.KeySession, sess); err != nil {
		log.Printf("session: persist session: %v", err)
	}
}
