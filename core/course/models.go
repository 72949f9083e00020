package course

import (
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// Enrollment statuses: a student's relationship to one course.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusDropped   = "DROPPED"
	StatusKicked    = "KICKED"
)

var (
	// errors
	ErrChatNotOwner    = errors.New("only the course instructor may open this chat")
	ErrChatNotEnrolled = errors.New("an active enrollment is required to open this chat")
	ErrChatRole        = errors.New("this account cannot open course chats")
)

type Course struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	InstructorID string     `json:"instructorId"`
	Instructor   *user.User `json:"instructor,omitempty"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Enrollment is the requesting student's own enrollment, when the
	// backend includes it in course listings. Empty for other roles.
	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

type Enrollment struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Student   user.User `json:"student"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Material struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	FileName  string    `json:"fileName"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage is one message in a course room, in server rebroadcast order.
type ChatMessage struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanOpenChat is the client-side precondition for opening a course chat:
// an instructor may open the chat of their own course; a student only with an
// ACTIVE enrollment. This is an optimization, not a security boundary; the
// server enforces the same rule on join.
func CanOpenChat(usr user.User, crs Course, enr *Enrollment) error {
	switch {
	case usr.IsInstructor():
		if crs.InstructorID != usr.ID {
			return ErrChatNotOwner
		}
		return nil
	case usr.IsStudent():
		if enr == nil || enr.Status != StatusActive {
			return ErrChatNotEnrolled
		}
		return nil
	default:
		return ErrChatRole
	}
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	return core.Validate.Struct(uc)
}

// NewMaterial describes a file upload; the file itself travels as multipart content.
type NewMaterial struct {
	Title string `json:"title" validate:"required"`
}

func (nm *NewMaterial) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	return core.Validate.Struct(nm)
}

// QueryFilter narrows down paginated course subresources.
type QueryFilter struct {
	Page  int
	Limit int
}
