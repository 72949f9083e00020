package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogin_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      Login
		wantErr bool
	}{
		{name: "ok", in: Login{Username: "pumbaa", Password: "pwd"}},
		{name: "cleans username", in: Login{Username: "  PUMBAA ", Password: "pwd"}},
		{name: "missing username", in: Login{Password: "pwd"}, wantErr: true},
		{name: "missing password", in: Login{Username: "pumbaa"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "pumbaa", tt.in.Username)
		})
	}
}

func TestNewUser_Validate(t *testing.T) {
	valid := NewUser{
		Username:  "pumbaa",
		Email:     "pumbaa@savannah.org",
		FirstName: "Pumbaa",
		LastName:  "Warthog",
		Password:  "hakunamatata",
	}

	t.Run("ok", func(t *testing.T) {
		nu := valid
		assert.NoError(t, nu.Validate())
	})
	t.Run("cleans and lowers", func(t *testing.T) {
		nu := valid
		nu.Username = " PUMBAA "
		nu.Email = " Pumbaa@Savannah.org "
		assert.NoError(t, nu.Validate())
		assert.Equal(t, "pumbaa", nu.Username)
		assert.Equal(t, "pumbaa@savannah.org", nu.Email)
	})
	t.Run("bad email", func(t *testing.T) {
		nu := valid
		nu.Email = "not-an-email"
		assert.Error(t, nu.Validate())
	})
	t.Run("username with punctuation", func(t *testing.T) {
		nu := valid
		nu.Username = "pum-baa!"
		assert.Error(t, nu.Validate())
	})
	t.Run("short password", func(t *testing.T) {
		nu := valid
		nu.Password = "short"
		assert.Error(t, nu.Validate())
	})
}

func TestUpdateProfile_Validate(t *testing.T) {
	up := UpdateProfile{FirstName: " Timon "}
	assert.NoError(t, up.Validate())
	assert.Equal(t, "Timon", up.FirstName)

	up = UpdateProfile{Password: "short"}
	assert.Error(t, up.Validate())
}

func TestUser_HasAnyRole(t *testing.T) {
	usr := User{Role: RoleStudent}
	assert.True(t, usr.HasAnyRole(nil), "empty set admits any authenticated user")
	assert.True(t, usr.HasAnyRole([]string{RoleInstructor, RoleStudent}))
	assert.False(t, usr.HasAnyRole([]string{RoleAdmin}))
}

func TestUser_Name(t *testing.T) {
	assert.Equal(t, "Pumbaa Warthog", User{FirstName: "Pumbaa", LastName: "Warthog"}.Name())
	assert.Equal(t, "pumbaa", User{Username: "pumbaa"}.Name())
}
