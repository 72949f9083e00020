package core

// CredentialStore wraps durable key-value storage for the one bearer token.
// At most one token exists at a time; Get returns "" when no token is stored.
// Only the session manager and the gateway's login/logout paths may mutate it.
type CredentialStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}
