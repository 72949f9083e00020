package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/credentials"
	testutil "github.com/trezcool/darasa/tests"
)

// gatewayMock mirrors the documented gateway side effects: Login persists the
// token, Logout deletes it unconditionally.
type gatewayMock struct {
	creds core.CredentialStore
	usr   user.User

	loginErr  error
	meErr     error
	logoutErr error

	meCalls     int
	logoutCalls int
}

func (g *gatewayMock) Login(_ context.Context, _ user.Login) (user.User, error) {
	if g.loginErr != nil {
		return user.User{}, g.loginErr
	}
	if err := g.creds.Set("token-" + g.usr.ID); err != nil {
		return user.User{}, err
	}
	return g.usr, nil
}

func (g *gatewayMock) Me(context.Context) (user.User, error) {
	g.meCalls++
	if g.meErr != nil {
		return user.User{}, g.meErr
	}
	return g.usr, nil
}

func (g *gatewayMock) Logout(context.Context) error {
	g.logoutCalls++
	_ = g.creds.Delete()
	return g.logoutErr
}

func setup(t *testing.T, creds core.CredentialStore, gw *gatewayMock) (*session.Service, *testutil.Notifier) {
	t.Helper()
	gw.creds = creds
	notifier := new(testutil.Notifier)
	return session.NewService(gw, creds, testutil.NewLogger(t), notifier), notifier
}

func TestService_Restore_noToken(t *testing.T) {
	creds := credentials.NewMemory()
	gw := &gatewayMock{usr: user.User{ID: "1", Username: "pumbaa"}}
	svc, _ := setup(t, creds, gw)

	assert.True(t, svc.Snapshot().Initializing)
	svc.Restore(context.Background())

	snap := svc.Snapshot()
	assert.False(t, snap.Initializing)
	assert.Nil(t, snap.User)
	assert.Equal(t, 0, gw.meCalls, "who-am-i must not be called without a token")
}

func TestService_Restore_staleToken(t *testing.T) {
	creds := credentials.NewMemory("expired-token")
	gw := &gatewayMock{meErr: errors.New("HTTP error, status 401")}
	svc, _ := setup(t, creds, gw)

	svc.Restore(context.Background())

	snap := svc.Snapshot()
	assert.False(t, snap.Initializing)
	assert.Nil(t, snap.User)
	token, err := creds.Get()
	require.NoError(t, err)
	assert.Empty(t, token, "stale token must be discarded")
}

func TestService_Restore_validToken(t *testing.T) {
	creds := credentials.NewMemory("valid-token")
	gw := &gatewayMock{usr: user.User{ID: "1", Username: "pumbaa", Role: user.RoleStudent}}
	svc, _ := setup(t, creds, gw)

	svc.Restore(context.Background())

	usr, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "pumbaa", usr.Username)
	assert.False(t, svc.Snapshot().Initializing)
}

func TestService_Restore_runsOnce(t *testing.T) {
	creds := credentials.NewMemory("valid-token")
	gw := &gatewayMock{usr: user.User{ID: "1", Username: "pumbaa"}}
	svc, _ := setup(t, creds, gw)

	svc.Restore(context.Background())
	svc.Restore(context.Background())

	assert.Equal(t, 1, gw.meCalls)
}

func TestService_Login(t *testing.T) {
	usr := user.User{ID: "7", Username: "rafiki", FirstName: "Rafiki", Role: user.RoleInstructor}
	creds := credentials.NewMemory()
	gw := &gatewayMock{usr: usr}
	svc, notifier := setup(t, creds, gw)
	svc.Restore(context.Background())

	got, err := svc.Login(context.Background(), user.Login{Username: "rafiki", Password: "s3cret!pwd"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, usr.ID, current.ID)

	token, err := creds.Get()
	require.NoError(t, err)
	assert.Equal(t, "token-7", token)
	assert.NotEmpty(t, notifier.Successes)
}

func TestService_Login_badCredentials(t *testing.T) {
	creds := credentials.NewMemory()
	gw := &gatewayMock{loginErr: errors.New("invalid username or password")}
	svc, notifier := setup(t, creds, gw)
	svc.Restore(context.Background())

	_, err := svc.Login(context.Background(), user.Login{Username: "scar", Password: "wrong-pwd"})
	require.Error(t, err)
	assert.EqualError(t, err, "invalid username or password", "the server message must surface verbatim")

	_, ok := svc.Current()
	assert.False(t, ok, "failed login must leave the session unchanged")
	assert.Empty(t, notifier.Successes)
}

func TestService_Login_invalidInput(t *testing.T) {
	creds := credentials.NewMemory()
	gw := new(gatewayMock)
	svc, _ := setup(t, creds, gw)
	svc.Restore(context.Background())

	_, err := svc.Login(context.Background(), user.Login{Username: "", Password: ""})
	assert.Error(t, err)
}

func TestService_Logout_serverFailure(t *testing.T) {
	creds := credentials.NewMemory("valid-token")
	gw := &gatewayMock{usr: user.User{ID: "1", Username: "pumbaa"}, logoutErr: errors.New("network down")}
	svc, _ := setup(t, creds, gw)
	svc.Restore(context.Background())
	_, ok := svc.Current()
	require.True(t, ok)

	svc.Logout(context.Background())

	_, ok = svc.Current()
	assert.False(t, ok, "logout must de-authenticate locally even when the server call fails")
	token, err := creds.Get()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestService_Logout_idempotent(t *testing.T) {
	creds := credentials.NewMemory("valid-token")
	gw := &gatewayMock{usr: user.User{ID: "1", Username: "pumbaa"}}
	svc, _ := setup(t, creds, gw)
	svc.Restore(context.Background())

	svc.Logout(context.Background())
	svc.Logout(context.Background())

	_, ok := svc.Current()
	assert.False(t, ok)
	token, err := creds.Get()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, 2, gw.logoutCalls)
}
