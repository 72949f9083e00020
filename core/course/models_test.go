package course

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/user"
)

func TestCanOpenChat(t *testing.T) {
	instructor := user.User{ID: "i1", Role: user.RoleInstructor}
	student := user.User{ID: "s1", Role: user.RoleStudent}
	admin := user.User{ID: "a1", Role: user.RoleAdmin}
	crs := Course{ID: "c1", InstructorID: "i1"}

	tests := []struct {
		name    string
		usr     user.User
		enr     *Enrollment
		wantErr error
	}{
		{name: "own course instructor", usr: instructor},
		{name: "other instructor", usr: user.User{ID: "i2", Role: user.RoleInstructor}, wantErr: ErrChatNotOwner},
		{name: "active student", usr: student, enr: &Enrollment{CourseID: "c1", Status: StatusActive}},
		{name: "pending student", usr: student, enr: &Enrollment{CourseID: "c1", Status: StatusPending}, wantErr: ErrChatNotEnrolled},
		{name: "kicked student", usr: student, enr: &Enrollment{CourseID: "c1", Status: StatusKicked}, wantErr: ErrChatNotEnrolled},
		{name: "unenrolled student", usr: student, wantErr: ErrChatNotEnrolled},
		{name: "admin", usr: admin, wantErr: ErrChatRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanOpenChat(tt.usr, crs, tt.enr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewCourse_Validate(t *testing.T) {
	nc := NewCourse{Title: "  Intro to Savannah Ecology  "}
	assert.NoError(t, nc.Validate())
	assert.Equal(t, "Intro to Savannah Ecology", nc.Title)

	nc = NewCourse{Description: "no title"}
	assert.Error(t, nc.Validate())
}

func TestNewMaterial_Validate(t *testing.T) {
	nm := NewMaterial{Title: "Week 1 slides"}
	assert.NoError(t, nm.Validate())

	nm = NewMaterial{}
	assert.Error(t, nm.Validate())
}
