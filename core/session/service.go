package session

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type (
	// Gateway is the slice of the API gateway the session manager drives.
	// Login persists the received token as a side effect; Logout deletes it
	// unconditionally, even when the server call fails.
	Gateway interface {
		Login(ctx context.Context, in user.Login) (user.User, error)
		Me(ctx context.Context) (user.User, error)
		Logout(ctx context.Context) error
	}

	// Snapshot is the session state at one point in time. Initializing is
	// true only during the single boot-time restoration attempt.
	Snapshot struct {
		User         *user.User
		Initializing bool
	}

	// Service owns the authenticated-user value and its lifecycle.
	// All other components treat the session as read-only.
	Service struct {
		api      Gateway
		creds    core.CredentialStore
		logger   core.Logger
		notifier core.Notifier

		mu           sync.RWMutex
		current      *user.User
		initializing bool
		restoreOnce  sync.Once
	}
)

func NewService(api Gateway, creds core.CredentialStore, logger core.Logger, notifier core.Notifier) *Service {
	return &Service{
		api:          api,
		creds:        creds,
		logger:       logger,
		notifier:     notifier,
		initializing: true,
	}
}

// Restore attempts silent session restoration from the stored token. It runs
// at most once; restoration failures discard the token and leave the session
// empty, with no user-visible error. Initialization always completes.
func (svc *Service) Restore(ctx context.Context) {
	svc.restoreOnce.Do(func() {
		defer func() {
			svc.mu.Lock()
			svc.initializing = false
			svc.mu.Unlock()
		}()

		token, err := svc.creds.Get()
		if err != nil {
			svc.logger.Warn("session: reading stored token", err)
			return
		}
		if token == "" {
			return
		}

		usr, err := svc.api.Me(ctx)
		if err != nil {
			// expired/revoked token or unreachable server: discard and land on login
			svc.logger.Debug("session: restoration failed", err)
			if err := svc.creds.Delete(); err != nil {
				svc.logger.Warn("session: deleting stale token", err)
			}
			return
		}

		svc.mu.Lock()
		svc.current = &usr
		svc.mu.Unlock()
	})
}

// Login authenticates with the backend and populates the session. On failure
// the session is left unchanged and the gateway error is returned as is, so
// the server-provided message reaches the user verbatim.
func (svc *Service) Login(ctx context.Context, in user.Login) (user.User, error) {
	if err := in.Validate(); err != nil {
		return user.User{}, err
	}

	usr, err := svc.api.Login(ctx, in)
	if err != nil {
		return user.User{}, err
	}

	svc.mu.Lock()
	svc.current = &usr
	svc.mu.Unlock()

	svc.notifier.Success("Welcome back, " + usr.Name() + "!")
	return usr, nil
}

// Logout de-authenticates locally no matter what: a failed server-side logout
// is swallowed since local state has already reached the safe terminal state.
// Safe to call repeatedly.
func (svc *Service) Logout(ctx context.Context) {
	if err := svc.api.Logout(ctx); err != nil {
		svc.logger.Debug("session: server-side logout failed", err)
	}

	svc.mu.Lock()
	svc.current = nil
	svc.mu.Unlock()
}

// Snapshot returns the current session state for authorization decisions.
func (svc *Service) Snapshot() Snapshot {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.current == nil {
		return Snapshot{Initializing: svc.initializing}
	}
	usr := *svc.current
	return Snapshot{User: &usr, Initializing: svc.initializing}
}

// Current returns the authenticated user, if any.
func (svc *Service) Current() (user.User, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.current == nil {
		return user.User{}, false
	}
	return *svc.current, true
}
