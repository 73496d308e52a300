package service

import (
	"context"
	"fmt"

	"lis_client/internal/api"
	"lis_client/internal/model"
	"lis_client/internal/session"
)

// SessionManager owns the client's authenticated identity. A session value
// is created by login or restore, passed explicitly to the components that
// need it, and discarded on logout.
type SessionManager interface {
	Login(ctx context.Context, name, password string) (model.Session, error)
	Restore() (*model.Session, error)
	Logout() error
}

type sessionManager struct {
	client *api.Client
	store  *session.Store
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(client *api.Client, store *session.Store) SessionManager {
	return &sessionManager{client: client, store: store}
}

// Login exchanges credentials for a session and persists it. On failure the
// previously persisted session, if any, is left untouched.
func (m *sessionManager) Login(ctx context.Context, name, password string) (model.Session, error) {
	res, err := m.client.Login(ctx, name, password)
	if err != nil {
		return model.Session{}, err
	}

	sess := model.Session{
		Token:  res.Token,
		Role:   model.ParseRole(res.Role),
		UserID: res.UserID,
		Name:   res.Name,
	}
	if !sess.Complete() {
		return model.Session{}, fmt.Errorf("backend returned an incomplete session")
	}

	if err := m.store.Save(sess); err != nil {
		return model.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Restore reads the persisted session, consulted once at process start.
// It returns (nil, nil) when the client is unauthenticated.
func (m *sessionManager) Restore() (*model.Session, error) {
	return m.store.Load()
}

// Logout clears the persisted session unconditionally and returns the
// client to the unauthenticated state.
func (m *sessionManager) Logout() error {
	return m.store.Clear()
}
