package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

func (cli *commandLine) listCourses(ctx context.Context, page, limit int) error {
	if _, err := cli.guard(); err != nil {
		return err
	}
	res, err := cli.api.Courses(ctx, course.QueryFilter{Page: page, Limit: limit})
	if err != nil {
		return err
	}
	for _, crs := range res.Data {
		status := ""
		if crs.Completed {
			status = " [completed]"
		}
		if crs.Enrollment != nil {
			status += " [" + crs.Enrollment.Status + "]"
		}
		fmt.Printf("%s  %s%s\n", crs.ID, crs.Title, status)
	}
	fmt.Printf("page %d of %d course(s)\n", res.Page, res.Total)
	return nil
}

func (cli *commandLine) createCourse(ctx context.Context, title, desc string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	in := course.NewCourse{Title: title, Description: desc}
	if err := in.Validate(); err != nil {
		return err
	}
	crs, err := cli.api.CreateCourse(ctx, in)
	if err != nil {
		return err
	}
	cli.notifier.Success("Course created: " + crs.ID)
	return nil
}

func (cli *commandLine) updateCourse(ctx context.Context, id, title, desc string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	in := course.UpdateCourse{Title: title, Description: desc}
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := cli.api.UpdateCourse(ctx, id, in); err != nil {
		return err
	}
	cli.notifier.Success("Course updated.")
	return nil
}

func (cli *commandLine) deleteCourse(ctx context.Context, id string) error {
	if _, err := cli.guard(user.RoleInstructor, user.RoleAdmin); err != nil {
		return err
	}
	if err := cli.api.DeleteCourse(ctx, id); err != nil {
		return err
	}
	cli.notifier.Success("Course deleted.")
	return nil
}

func (cli *commandLine) completeCourse(ctx context.Context, id string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	if err := cli.api.CompleteCourse(ctx, id); err != nil {
		return err
	}
	cli.notifier.Success("Course marked completed.")
	return nil
}

func (cli *commandLine) listStudents(ctx context.Context, courseID string) error {
	if _, err := cli.guard(user.RoleInstructor, user.RoleAdmin); err != nil {
		return err
	}
	res, err := cli.api.CourseStudents(ctx, courseID, course.QueryFilter{})
	if err != nil {
		return err
	}
	for _, enr := range res.Data {
		fmt.Printf("%s  %s  %s\n", enr.Student.ID, enr.Student.Name(), enr.Status)
	}
	return nil
}

func (cli *commandLine) inviteStudent(ctx context.Context, courseID, studentID string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	if err := cli.api.InviteStudent(ctx, courseID, studentID); err != nil {
		return err
	}
	cli.notifier.Success("Invite sent.")
	return nil
}

func (cli *commandLine) kickStudent(ctx context.Context, courseID, studentID string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	if err := cli.api.KickStudent(ctx, courseID, studentID); err != nil {
		return err
	}
	cli.notifier.Success("Student removed from course.")
	return nil
}

func (cli *commandLine) enrollmentAction(ctx context.Context, action, courseID string) error {
	if _, err := cli.guard(user.RoleStudent); err != nil {
		return err
	}
	var err error
	switch action {
	case "accept":
		err = cli.api.AcceptInvite(ctx, courseID)
	case "reject":
		err = cli.api.RejectInvite(ctx, courseID)
	case "drop":
		err = cli.api.DropCourse(ctx, courseID)
	}
	if err != nil {
		return err
	}
	cli.notifier.Success("Done.")
	return nil
}

func (cli *commandLine) listMaterials(ctx context.Context, courseID string) error {
	if _, err := cli.guard(); err != nil {
		return err
	}
	res, err := cli.api.Materials(ctx, courseID, course.QueryFilter{})
	if err != nil {
		return err
	}
	for _, mat := range res.Data {
		fmt.Printf("%s  %s (%s, %d bytes)\n", mat.ID, mat.Title, mat.FileName, mat.Size)
	}
	return nil
}

func (cli *commandLine) uploadMaterial(ctx context.Context, courseID, title, path string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	in := course.NewMaterial{Title: title}
	if err := in.Validate(); err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	mat, err := cli.api.UploadMaterial(ctx, courseID, in.Title, filepath.Base(path), file)
	if err != nil {
		return err
	}
	cli.notifier.Success("Material uploaded: " + mat.ID)
	return nil
}

func (cli *commandLine) downloadMaterial(ctx context.Context, courseID, materialID, out string) error {
	if _, err := cli.guard(); err != nil {
		return err
	}
	data, filename, err := cli.api.DownloadMaterial(ctx, courseID, materialID)
	if err != nil {
		return err
	}
	if out == "" {
		if filename == "" {
			filename = materialID
		}
		out = filename
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	cli.notifier.Success("Saved " + out)
	return nil
}

func (cli *commandLine) deleteMaterial(ctx context.Context, courseID, materialID string) error {
	if _, err := cli.guard(user.RoleInstructor); err != nil {
		return err
	}
	if err := cli.api.DeleteMaterial(ctx, courseID, materialID); err != nil {
		return err
	}
	cli.notifier.Success("Material deleted.")
	return nil
}
