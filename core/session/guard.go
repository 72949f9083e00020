package session

// Decision is the outcome of a route authorization check. Re-evaluated fresh
// on every navigation; never cached.
type Decision int

const (
	// Pending: session still initializing; show a loading state, decide nothing.
	Pending Decision = iota
	// Unauthenticated: no current user; redirect to login.
	Unauthenticated
	// Forbidden: the route's allowed-roles set excludes the user's role; redirect to unauthorized.
	Forbidden
	// Authorized: render the requested view.
	Authorized
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// Authorize decides whether the session may access a route declaring
// `allowedRoles`. An empty set means any authenticated user.
func Authorize(snap Snapshot, allowedRoles []string) Decision {
	if snap.Initializing {
		return Pending
	}
	if snap.User == nil {
		return Unauthenticated
	}
	if !snap.User.HasAnyRole(allowedRoles) {
		return Forbidden
	}
	return Authorized
}
