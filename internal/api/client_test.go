package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"lis_client/internal/fakelis"
	"lis_client/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := fakelis.New(fakelis.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	require.NoError(t, err)

	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func adminToken(t *testing.T, c *Client) (token, userID string) {
	t.Helper()
	res, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	return res.Token, res.UserID
}

// freshPatient generates a pool and returns one unconsumed patient.
func freshPatient(t *testing.T, c *Client) model.Patient {
	t.Helper()
	patients, err := c.GeneratePatients(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, patients)
	return patients[0]
}

func TestLogin(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Login(context.Background(), "tech", "tech123")

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Technician", res.Role)
	assert.Equal(t, "T01", res.UserID)
	assert.Equal(t, "tech", res.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Login(context.Background(), "tech", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.EqualError(t, err, "Invalid credentials")
}

func TestListUsers_RequiresToken(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ListUsers(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = c.ListUsers(context.Background(), "garbage-token")
	assert.ErrorIs(t, err, ErrAuth)
}

func TestUserAdministrationRoundtrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	token, adminID := adminToken(t, c)

	created, err := c.CreateUser(ctx, token, "carol", "pw12345", model.RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTechnician, created.Role)
	assert.Equal(t, "carol", created.Name)
	assert.Regexp(t, `^T\d{2}$`, created.ID)

	users, err := c.ListUsers(ctx, token)
	require.NoError(t, err)
	assert.Len(t, users, 4) // three seeded plus carol

	detail, err := c.PromoteUser(ctx, token, created.ID, model.RoleSupervisor, adminID)
	require.NoError(t, err)
	assert.Contains(t, detail, "promoted to Supervisor")

	detail, err = c.DeleteUser(ctx, token, created.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, "User deleted successfully", detail)

	_, err = c.DeleteUser(ctx, token, created.ID, adminID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUser_NonAdmin(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res, err := c.Login(ctx, "tech", "tech123")
	require.NoError(t, err)

	_, err = c.CreateUser(ctx, res.Token, "mallory", "pw12345", model.RoleAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Only admins can create users")
}

func TestCreateEntry_DuplicatePatient(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	patient := freshPatient(t, c)

	first, err := c.CreateEntry(ctx, patient.ID, patient.TestName, "T01", "tech")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, first.Status)
	assert.Nil(t, first.Result)

	_, err = c.CreateEntry(ctx, patient.ID, patient.TestName, "T01", "tech")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "This test has already been ordered for this patient")

	// The existing entry is unchanged by the rejected duplicate.
	entries, err := c.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, model.StatusPending, entries[0].Status)
}

func TestProcessEntry_Lifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	patient := freshPatient(t, c)

	entry, err := c.CreateEntry(ctx, patient.ID, patient.TestName, "T01", "tech")
	require.NoError(t, err)

	processed, err := c.ProcessEntry(ctx, entry.ID, "T01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, processed.Status)

	// A second process attempt is an illegal transition.
	_, err = c.ProcessEntry(ctx, entry.ID, "T01")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrState)

	entries, err := c.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.StatusProcessed, entries[0].Status)
}

func TestVerifyEntry_OnlyFromProcessed(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	patient := freshPatient(t, c)

	entry, err := c.CreateEntry(ctx, patient.ID, patient.TestName, "T01", "tech")
	require.NoError(t, err)

	// Pending -> Verified is not a legal transition.
	_, err = c.VerifyEntry(ctx, entry.ID, model.ResultPositive, "S01")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrState)
	assert.EqualError(t, err, "Entry must be processed before verification")

	_, err = c.ProcessEntry(ctx, entry.ID, "T01")
	require.NoError(t, err)

	verified, err := c.VerifyEntry(ctx, entry.ID, model.ResultPositive, "S01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, verified.Status)
	require.NotNil(t, verified.Result)
	assert.Equal(t, model.ResultPositive, *verified.Result)
	require.NotNil(t, verified.SupervisorID)
	assert.Equal(t, "S01", *verified.SupervisorID)

	// Verified is terminal.
	_, err = c.VerifyEntry(ctx, entry.ID, model.ResultNegative, "S01")
	assert.ErrorIs(t, err, ErrState)
}

func TestVerifyEntry_TechnicianForbidden(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	patient := freshPatient(t, c)

	entry, err := c.CreateEntry(ctx, patient.ID, patient.TestName, "T01", "tech")
	require.NoError(t, err)
	_, err = c.ProcessEntry(ctx, entry.ID, "T01")
	require.NoError(t, err)

	_, err = c.VerifyEntry(ctx, entry.ID, model.ResultPositive, "T01")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrState)
	assert.EqualError(t, err, "User not authorized to verify entries")
}

func TestNetworkFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend, err := fakelis.New(fakelis.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	require.NoError(t, err)
	srv := httptest.NewServer(backend.Router())
	c := NewClient(srv.URL, time.Second)
	srv.Close()

	_, err = c.ListEntries(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}
