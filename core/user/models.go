package user

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Roles. Assigned server-side; the client never mutates them.
const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
	RoleStudent    = "STUDENT"
)

var AllRoles = []string{RoleAdmin, RoleInstructor, RoleStudent}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Name() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return core.CleanString(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool      { return u.Role == RoleAdmin }
func (u User) IsInstructor() bool { return u.Role == RoleInstructor }
func (u User) IsStudent() bool    { return u.Role == RoleStudent }

// HasAnyRole reports whether the user's role is in `roles`.
// An empty set allows any authenticated user.
func (u User) HasAnyRole(roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// Login contains the credentials submitted to the login operation.
type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (l *Login) Validate() error {
	l.Username = core.CleanString(l.Username, true /* lower */)
	return core.Validate.Struct(l)
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username  string `json:"username" validate:"required,min=3,alphanum_"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (nu *NewUser) Validate() error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	return core.Validate.Struct(nu)
}

// NewInstructor contains information needed for an admin to create an instructor account.
type NewInstructor struct {
	Username  string `json:"username" validate:"required,min=3,alphanum_"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Bio       string `json:"bio,omitempty"`
}

func (ni *NewInstructor) Validate() error {
	ni.Username = core.CleanString(ni.Username, true /* lower */)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.FirstName = core.CleanString(ni.FirstName)
	ni.LastName = core.CleanString(ni.LastName)
	ni.Bio = core.CleanString(ni.Bio)
	return core.Validate.Struct(ni)
}

// UpdateProfile defines what information a user may modify on their own account.
type UpdateProfile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=8"`
}

func (up *UpdateProfile) Validate() error {
	up.FirstName = core.CleanString(up.FirstName)
	up.LastName = core.CleanString(up.LastName)
	up.Bio = core.CleanString(up.Bio)
	return core.Validate.Struct(up)
}

// QueryFilter narrows down a user listing.
type QueryFilter struct {
	Page  int
	Limit int
	Role  string
}
