// Package testutil hosts the fake Darasa backend and shared test doubles.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// Backend is an in-process stand-in for the Darasa API, covering the auth
// surface the client's session layer drives. Endpoint-specific behaviors are
// exercised with inline httptest handlers in the packages that need them.
type Backend struct {
	app    *echo.Echo
	secret []byte

	mu       sync.Mutex
	accounts map[string]account // by username
	revoked  map[string]bool    // tokens invalidated by logout

	// LogoutStatus overrides the logout response code (default 204).
	LogoutStatus int
}

type account struct {
	usr  user.User
	hash []byte
}

func NewBackend() *Backend {
	b := &Backend{
		secret:   []byte("darasa-test-secret"),
		accounts: make(map[string]account),
		revoked:  make(map[string]bool),
	}

	app := echo.New()
	app.Logger.SetLevel(log.OFF)
	app.HideBanner = true
	app.POST("/auth/login", b.login)
	app.GET("/auth/me", b.me)
	app.POST("/auth/logout", b.logout)
	b.app = app
	return b
}

// Start serves the fake backend and returns a Config pointing the client at it.
func (b *Backend) Start(t *testing.T) (*httptest.Server, *core.Config) {
	t.Helper()
	srv := httptest.NewServer(b.app)
	t.Cleanup(srv.Close)

	conf := core.NewConfig()
	conf.API.BaseURL = srv.URL
	conf.API.Timeout = 5 * time.Second
	return srv, conf
}

// AddUser registers a fixture account.
func (b *Backend) AddUser(t *testing.T, uname, email, pwd, role string) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("AddUser() failed: %v", err)
	}
	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.NewString(),
		Username:  uname,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.mu.Lock()
	b.accounts[uname] = account{usr: usr, hash: hash}
	b.mu.Unlock()
	return usr
}

// Token mints a valid bearer token for usr.
func (b *Backend) Token(t *testing.T, usr user.User) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   usr.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// Handlers

func (b *Backend) login(ctx echo.Context) error {
	var in user.Login
	if err := ctx.Bind(&in); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "malformed body"})
	}

	b.mu.Lock()
	acc, ok := b.accounts[in.Username]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(in.Password)) != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid username or password"})
	}

	claims := jwt.RegisteredClaims{
		Subject:   acc.usr.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"user": acc.usr, "accessToken": token})
}

func (b *Backend) me(ctx echo.Context) error {
	usr, err := b.authenticate(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (b *Backend) logout(ctx echo.Context) error {
	if b.LogoutStatus >= http.StatusBadRequest {
		return ctx.JSON(b.LogoutStatus, echo.Map{"message": "logout failed"})
	}
	if raw := bearerToken(ctx); raw != "" {
		b.mu.Lock()
		b.revoked[raw] = true
		b.mu.Unlock()
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (b *Backend) authenticate(ctx echo.Context) (user.User, error) {
	raw := bearerToken(ctx)
	if raw == "" {
		return user.User{}, echo.ErrUnauthorized
	}
	b.mu.Lock()
	revoked := b.revoked[raw]
	b.mu.Unlock()
	if revoked {
		return user.User{}, echo.ErrUnauthorized
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return b.secret, nil
	}); err != nil {
		return user.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acc := range b.accounts {
		if acc.usr.ID == claims.Subject {
			return acc.usr, nil
		}
	}
	return user.User{}, echo.ErrUnauthorized
}

func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return strings.TrimPrefix(header, "Bearer ")
}

// Doubles

// Logger funnels client logs into the test output.
type Logger struct {
	T *testing.T
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(t *testing.T) *Logger { return &Logger{T: t} }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.T.Helper()
	l.T.Logf("%s: %s %v", level, msg, args)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.T.Fatalf("%s %v", msg, args) }

// Notifier records surfaced notifications for assertions.
type Notifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

var _ core.Notifier = (*Notifier)(nil)

func (n *Notifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, msg)
}

func (n *Notifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}

func (n *Notifier) LastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Errors) == 0 {
		return ""
	}
	return n.Errors[len(n.Errors)-1]
}
