package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"lis_client/internal/api"
	"lis_client/internal/fakelis"
	"lis_client/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newTestClient spins up an in-process stand-in backend and returns an API
// client pointed at it.
func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := fakelis.New(fakelis.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	require.NoError(t, err)

	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, 5*time.Second)
}

// loginAs logs in through the real endpoint and builds the session value
// the services expect.
func loginAs(t *testing.T, c *api.Client, name, password string) model.Session {
	t.Helper()
	res, err := c.Login(context.Background(), name, password)
	require.NoError(t, err)

	sess := model.Session{
		Token:  res.Token,
		Role:   model.ParseRole(res.Role),
		UserID: res.UserID,
		Name:   res.Name,
	}
	require.True(t, sess.Complete())
	return sess
}

// freshPatient generates a patient pool and returns one unconsumed patient.
func freshPatient(t *testing.T, c *api.Client) model.Patient {
	t.Helper()
	patients, err := c.GeneratePatients(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, patients)
	return patients[0]
}
