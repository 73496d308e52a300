package service

import (
	"context"

	"lis_client/internal/api"
	"lis_client/internal/model"
	"lis_client/internal/permission"
)

// UserAdmin drives the admin-only user management operations. The client
// gates visibility only; the backend remains the authority and re-checks
// every call. Each method therefore refuses to issue a request at all when
// the acting role lacks the manage-users capability.
type UserAdmin interface {
	Create(ctx context.Context, sess model.Session, name, password string, role model.Role) (*model.User, error)
	List(ctx context.Context, sess model.Session) ([]model.User, error)
	// Delete is irreversible; callers must confirm with the user before
	// invoking it. It returns the backend's confirmation message.
	Delete(ctx context.Context, sess model.Session, targetID string) (string, error)
	Promote(ctx context.Context, sess model.Session, targetID string, newRole model.Role) (string, error)
	// CreatedThisSession lists the users created through this UserAdmin
	// since the process started.
	CreatedThisSession() []model.User
}

type userAdmin struct {
	client  *api.Client
	created []model.User // mutated only from the single caller thread
}

// NewUserAdmin creates a new UserAdmin
func NewUserAdmin(client *api.Client) UserAdmin {
	return &userAdmin{client: client}
}

func (a *userAdmin) Create(ctx context.Context, sess model.Session, name, password string, role model.Role) (*model.User, error) {
	if !permission.For(sess.Role).CanManageUsers {
		return nil, ErrNotPermitted
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := a.client.CreateUser(ctx, sess.Token, name, password, role)
	if err != nil {
		return nil, err
	}
	a.created = append(a.created, *user)
	return user, nil
}

func (a *userAdmin) List(ctx context.Context, sess model.Session) ([]model.User, error) {
	if !permission.For(sess.Role).CanManageUsers {
		return nil, ErrNotPermitted
	}
	return a.client.ListUsers(ctx, sess.Token)
}

func (a *userAdmin) Delete(ctx context.Context, sess model.Session, targetID string) (string, error) {
	if !permission.For(sess.Role).CanManageUsers {
		return "", ErrNotPermitted
	}
	return a.client.DeleteUser(ctx, sess.Token, targetID, sess.UserID)
}

func (a *userAdmin) Promote(ctx context.Context, sess model.Session, targetID string, newRole model.Role) (string, error) {
	if !permission.For(sess.Role).CanManageUsers {
		return "", ErrNotPermitted
	}
	if !newRole.Valid() {
		return "", ErrInvalidRole
	}
	return a.client.PromoteUser(ctx, sess.Token, targetID, newRole, sess.UserID)
}

func (a *userAdmin) CreatedThisSession() []model.User {
	out := make([]model.User, len(a.created))
	copy(out, a.created)
	return out
}
