package backend

import (
	"context"
	"io"
	"net/http"

	"github.com/trezcool/darasa/core/course"
)

type (
	CoursePage struct {
		Pagination
		Data []course.Course `json:"data"`
	}

	EnrollmentPage struct {
		Pagination
		Data []course.Enrollment `json:"data"`
	}

	MaterialPage struct {
		Pagination
		Data []course.Material `json:"data"`
	}
)

// Courses lists the courses visible to the authenticated user. For students
// the backend includes their own enrollment per course.
func (c *Client) Courses(ctx context.Context, filter course.QueryFilter) (CoursePage, error) {
	var page CoursePage
	err := c.do(ctx, http.MethodGet, "/courses", pageQuery(filter.Page, filter.Limit), nil, &page)
	return page, err
}

func (c *Client) CreateCourse(ctx context.Context, in course.NewCourse) (course.Course, error) {
	var crs course.Course
	err := c.do(ctx, http.MethodPost, "/courses", nil, in, &crs)
	return crs, err
}

func (c *Client) UpdateCourse(ctx context.Context, id string, in course.UpdateCourse) (course.Course, error) {
	var crs course.Course
	err := c.do(ctx, http.MethodPatch, "/courses/"+id, nil, in, &crs)
	return crs, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+id, nil, nil, nil)
}

// CompleteCourse marks a course as completed (instructor only).
func (c *Client) CompleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/courses/"+id+"/complete", nil, nil, nil)
}

// CourseStudents lists the enrollments of one course.
func (c *Client) CourseStudents(ctx context.Context, courseID string, filter course.QueryFilter) (EnrollmentPage, error) {
	var page EnrollmentPage
	err := c.do(ctx, http.MethodGet, "/courses/"+courseID+"/students", pageQuery(filter.Page, filter.Limit), nil, &page)
	return page, err
}

// Enrollment actions

// DropCourse drops the authenticated student's active enrollment.
func (c *Client) DropCourse(ctx context.Context, courseID string) error {
	return c.do(ctx, http.MethodPatch, "/student/drop/"+courseID, nil, nil, nil)
}

// AcceptInvite accepts a pending enrollment invite.
func (c *Client) AcceptInvite(ctx context.Context, courseID string) error {
	return c.do(ctx, http.MethodPatch, "/student/accept/"+courseID, nil, nil, nil)
}

// RejectInvite rejects a pending enrollment invite.
func (c *Client) RejectInvite(ctx context.Context, courseID string) error {
	return c.do(ctx, http.MethodDelete, "/courses/reject/"+courseID, nil, nil, nil)
}

// InviteStudent invites a student to a course (instructor only).
func (c *Client) InviteStudent(ctx context.Context, courseID, studentID string) error {
	return c.do(ctx, http.MethodPost, "/instructor/courses/"+courseID+"/students/"+studentID+"/invite", nil, nil, nil)
}

// KickStudent removes a student from a course (instructor only).
func (c *Client) KickStudent(ctx context.Context, courseID, studentID string) error {
	return c.do(ctx, http.MethodPatch, "/instructor/courses/"+courseID+"/students/"+studentID+"/kick", nil, nil, nil)
}

// Materials

func (c *Client) Materials(ctx context.Context, courseID string, filter course.QueryFilter) (MaterialPage, error) {
	var page MaterialPage
	err := c.do(ctx, http.MethodGet, "/courses/"+courseID+"/materials", pageQuery(filter.Page, filter.Limit), nil, &page)
	return page, err
}

// UploadMaterial sends the file as multipart content with fields `file` and `title`.
func (c *Client) UploadMaterial(ctx context.Context, courseID, title, filename string, file io.Reader) (course.Material, error) {
	var mat course.Material
	err := c.upload(ctx, "/courses/"+courseID+"/materials", title, filename, file, &mat)
	return mat, err
}

// DownloadMaterial returns the raw file content and the filename suggested by
// the backend, for the caller to materialize however it sees fit.
func (c *Client) DownloadMaterial(ctx context.Context, courseID, materialID string) ([]byte, string, error) {
	return c.download(ctx, "/courses/"+courseID+"/materials/"+materialID+"/download")
}

func (c *Client) DeleteMaterial(ctx context.Context, courseID, materialID string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+courseID+"/materials/"+materialID, nil, nil, nil)
}
