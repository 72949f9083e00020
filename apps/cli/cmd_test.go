package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/backend"
	"github.com/trezcool/darasa/storage/credentials"
	testutil "github.com/trezcool/darasa/tests"
)

func newTestCLI(t *testing.T) (*commandLine, *testutil.Backend, *testutil.Notifier) {
	t.Helper()
	be := testutil.NewBackend()
	_, conf := be.Start(t)

	creds := credentials.NewMemory()
	logger := testutil.NewLogger(t)
	notifier := new(testutil.Notifier)
	api := backend.NewClient(conf, creds, logger, notifier)
	sess := session.NewService(api, creds, logger, notifier)
	sess.Restore(context.Background())

	cli := &commandLine{conf: conf, sess: sess, api: api, logger: logger, notifier: notifier}
	return cli, be, notifier
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestCLI_help(t *testing.T) {
	cli, _, _ := newTestCLI(t)
	ctx := context.Background()

	assert.ErrorIs(t, cli.run(ctx, []string{"darasa"}), errHelp)
	assert.ErrorIs(t, cli.run(ctx, []string{"darasa", "bogus"}), errHelp)
	assert.ErrorIs(t, cli.run(ctx, []string{"darasa", "login"}), errHelp) // missing -username
}

func TestCLI_whoamiRequiresLogin(t *testing.T) {
	cli, _, _ := newTestCLI(t)

	err := cli.run(context.Background(), []string{"darasa", "whoami"})
	require.Error(t, err)
	assert.EqualError(t, err, "not logged in; run the login command first")
}

func TestCLI_loginFlow(t *testing.T) {
	cli, be, notifier := newTestCLI(t)
	be.AddUser(t, "pumbaa", "pumbaa@savannah.org", "hakunamatata", user.RoleStudent)
	mockPassword(t, "hakunamatata")
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"darasa", "login", "-username", "pumbaa"}))

	usr, ok := cli.sess.Current()
	require.True(t, ok)
	assert.Equal(t, "pumbaa", usr.Username)
	assert.Contains(t, notifier.Successes, "Welcome back, pumbaa!")

	// whoami now passes the guard
	assert.NoError(t, cli.run(ctx, []string{"darasa", "whoami"}))

	require.NoError(t, cli.run(ctx, []string{"darasa", "logout"}))
	_, ok = cli.sess.Current()
	assert.False(t, ok)
}

func TestCLI_validationMessagesTranslated(t *testing.T) {
	cli, _, notifier := newTestCLI(t)
	mockPassword(t, "") // empty password fails input validation

	err := cli.run(context.Background(), []string{"darasa", "login", "-username", "pumbaa"})
	require.Error(t, err)
	cli.reportError(err)

	assert.Contains(t, notifier.Errors, "password: this field is required")
	for _, msg := range notifier.Errors {
		assert.NotContains(t, msg, "Field validation for", "raw validator output must never surface")
	}
}

func TestCLI_loginBadPassword(t *testing.T) {
	cli, be, _ := newTestCLI(t)
	be.AddUser(t, "pumbaa", "pumbaa@savannah.org", "hakunamatata", user.RoleStudent)
	mockPassword(t, "wrong")

	err := cli.run(context.Background(), []string{"darasa", "login", "-username", "pumbaa"})
	require.Error(t, err)
	assert.EqualError(t, err, "invalid username or password")

	_, ok := cli.sess.Current()
	assert.False(t, ok)
}

func TestCLI_adminCommandsForbidden(t *testing.T) {
	cli, be, _ := newTestCLI(t)
	be.AddUser(t, "timon", "timon@savannah.org", "hakunamatata", user.RoleStudent)
	mockPassword(t, "hakunamatata")
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"darasa", "login", "-username", "timon"}))

	for _, args := range [][]string{
		{"darasa", "users"},
		{"darasa", "deluser", "-id", "x"},
		{"darasa", "newinstructor", "-username", "rafiki", "-email", "rafiki@savannah.org"},
		{"darasa", "watch"},
	} {
		err := cli.run(ctx, args)
		assert.EqualError(t, err, "permission denied", "args: %v", args)
	}
}

func TestCLI_usersRejectsUnknownRole(t *testing.T) {
	cli, be, _ := newTestCLI(t)
	be.AddUser(t, "mufasa", "mufasa@savannah.org", "hakunamatata", user.RoleAdmin)
	mockPassword(t, "hakunamatata")
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"darasa", "login", "-username", "mufasa"}))

	err := cli.run(ctx, []string{"darasa", "users", "-role", "JANITOR"})
	assert.EqualError(t, err, `unknown role "JANITOR" (want one of ADMIN, INSTRUCTOR, STUDENT)`)
}

func TestCLI_instructorCommandsForbiddenForStudents(t *testing.T) {
	cli, be, _ := newTestCLI(t)
	be.AddUser(t, "timon", "timon@savannah.org", "hakunamatata", user.RoleStudent)
	mockPassword(t, "hakunamatata")
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"darasa", "login", "-username", "timon"}))

	err := cli.run(ctx, []string{"darasa", "newcourse", "-title", "Foraging 101"})
	assert.EqualError(t, err, "permission denied")
}
