package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	sess     *session.Service
	api      *backend.Client
	logger   core.Logger
	notifier core.Notifier
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -username USERNAME                         - log in (password prompted)")
	fmt.Println("  logout                                           - log out")
	fmt.Println("  whoami                                           - show the authenticated user")
	fmt.Println("  register -username U -email E -first F -last L   - register a student account")
	fmt.Println("  profile [-first F] [-last L] [-bio B] [-password]- update own profile")
	fmt.Println("  deleteaccount                                    - delete own account")
	fmt.Println("  courses [-page N] [-limit N]                     - list courses")
	fmt.Println("  newcourse -title T [-desc D]                     - create a course (instructor)")
	fmt.Println("  editcourse -id ID [-title T] [-desc D]           - update a course (instructor)")
	fmt.Println("  delcourse -id ID                                 - delete a course (instructor)")
	fmt.Println("  completecourse -id ID                            - mark a course completed (instructor)")
	fmt.Println("  students -course ID                              - list course enrollments (instructor)")
	fmt.Println("  invite -course ID -student ID                    - invite a student (instructor)")
	fmt.Println("  kick -course ID -student ID                      - kick a student (instructor)")
	fmt.Println("  accept -course ID                                - accept a course invite (student)")
	fmt.Println("  reject -course ID                                - reject a course invite (student)")
	fmt.Println("  drop -course ID                                  - drop a course (student)")
	fmt.Println("  materials -course ID                             - list course materials")
	fmt.Println("  upload -course ID -title T -file PATH            - upload course material (instructor)")
	fmt.Println("  download -course ID -material ID [-out PATH]     - download course material")
	fmt.Println("  delmaterial -course ID -material ID              - delete course material (instructor)")
	fmt.Println("  users [-role ROLE] [-page N] [-limit N]          - list users (admin)")
	fmt.Println("  newinstructor -username U -email E -first F -last L [-bio B] - create an instructor (admin)")
	fmt.Println("  deluser -id ID                                   - delete a user (admin)")
	fmt.Println("  watch                                            - follow the live event feed (admin)")
	fmt.Println("  chat -course ID                                  - join a course chat room")
}

// guard applies the route authorization policy before a command runs: an
// empty role set admits any authenticated user.
func (cli *commandLine) guard(roles ...string) (user.User, error) {
	switch session.Authorize(cli.sess.Snapshot(), roles) {
	case session.Pending:
		return user.User{}, errors.New("session is still initializing, try again")
	case session.Unauthenticated:
		return user.User{}, errors.New("not logged in; run the login command first")
	case session.Forbidden:
		return user.User{}, errors.New("permission denied")
	}
	usr, _ := cli.sess.Current()
	return usr, nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		uname := fs.String("username", "", "The username or email to authenticate as.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			fs.Usage()
			return errHelp
		}
		return cli.login(ctx, *uname)

	case "logout":
		return cli.logout(ctx)

	case "whoami":
		return cli.whoami()

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		uname := fs.String("username", "", "Username.")
		email := fs.String("email", "", "Email address.")
		first := fs.String("first", "", "First name.")
		last := fs.String("last", "", "Last name.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" || *email == "" {
			fs.Usage()
			return errHelp
		}
		return cli.register(ctx, *uname, *email, *first, *last)

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ExitOnError)
		first := fs.String("first", "", "First name.")
		last := fs.String("last", "", "Last name.")
		bio := fs.String("bio", "", "Short bio.")
		pwd := fs.Bool("password", false, "Prompt for a new password.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		return cli.updateProfile(ctx, *first, *last, *bio, *pwd)

	case "deleteaccount":
		return cli.deleteAccount(ctx)

	case "courses":
		fs := flag.NewFlagSet("courses", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number.")
		limit := fs.Int("limit", 20, "Page size.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listCourses(ctx, *page, *limit)

	case "newcourse":
		fs := flag.NewFlagSet("newcourse", flag.ExitOnError)
		title := fs.String("title", "", "Course title.")
		desc := fs.String("desc", "", "Course description.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *title == "" {
			fs.Usage()
			return errHelp
		}
		return cli.createCourse(ctx, *title, *desc)

	case "editcourse":
		fs := flag.NewFlagSet("editcourse", flag.ExitOnError)
		id := fs.String("id", "", "Course ID.")
		title := fs.String("title", "", "Course title.")
		desc := fs.String("desc", "", "Course description.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.updateCourse(ctx, *id, *title, *desc)

	case "delcourse":
		id, err := parseCourseID("delcourse", args[2:])
		if err != nil {
			return err
		}
		return cli.deleteCourse(ctx, id)

	case "completecourse":
		id, err := parseCourseID("completecourse", args[2:])
		if err != nil {
			return err
		}
		return cli.completeCourse(ctx, id)

	case "students":
		id, err := parseCourseFlag("students", args[2:])
		if err != nil {
			return err
		}
		return cli.listStudents(ctx, id)

	case "invite", "kick":
		fs := flag.NewFlagSet(args[1], flag.ExitOnError)
		courseID := fs.String("course", "", "Course ID.")
		studentID := fs.String("student", "", "Student ID.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *courseID == "" || *studentID == "" {
			fs.Usage()
			return errHelp
		}
		if args[1] == "invite" {
			return cli.inviteStudent(ctx, *courseID, *studentID)
		}
		return cli.kickStudent(ctx, *courseID, *studentID)

	case "accept", "reject", "drop":
		id, err := parseCourseFlag(args[1], args[2:])
		if err != nil {
			return err
		}
		return cli.enrollmentAction(ctx, args[1], id)

	case "materials":
		id, err := parseCourseFlag("materials", args[2:])
		if err != nil {
			return err
		}
		return cli.listMaterials(ctx, id)

	case "upload":
		fs := flag.NewFlagSet("upload", flag.ExitOnError)
		courseID := fs.String("course", "", "Course ID.")
		title := fs.String("title", "", "Material title.")
		path := fs.String("file", "", "Path of the file to upload.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *courseID == "" || *title == "" || *path == "" {
			fs.Usage()
			return errHelp
		}
		return cli.uploadMaterial(ctx, *courseID, *title, *path)

	case "download":
		fs := flag.NewFlagSet("download", flag.ExitOnError)
		courseID := fs.String("course", "", "Course ID.")
		materialID := fs.String("material", "", "Material ID.")
		out := fs.String("out", "", "Output path (defaults to the server-provided filename).")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *courseID == "" || *materialID == "" {
			fs.Usage()
			return errHelp
		}
		return cli.downloadMaterial(ctx, *courseID, *materialID, *out)

	case "delmaterial":
		fs := flag.NewFlagSet("delmaterial", flag.ExitOnError)
		courseID := fs.String("course", "", "Course ID.")
		materialID := fs.String("material", "", "Material ID.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *courseID == "" || *materialID == "" {
			fs.Usage()
			return errHelp
		}
		return cli.deleteMaterial(ctx, *courseID, *materialID)

	case "users":
		fs := flag.NewFlagSet("users", flag.ExitOnError)
		role := fs.String("role", "", "Filter by role (ADMIN|INSTRUCTOR|STUDENT).")
		page := fs.Int("page", 1, "Page number.")
		limit := fs.Int("limit", 20, "Page size.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listUsers(ctx, *role, *page, *limit)

	case "newinstructor":
		fs := flag.NewFlagSet("newinstructor", flag.ExitOnError)
		uname := fs.String("username", "", "Username.")
		email := fs.String("email", "", "Email address.")
		first := fs.String("first", "", "First name.")
		last := fs.String("last", "", "Last name.")
		bio := fs.String("bio", "", "Short bio.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" || *email == "" {
			fs.Usage()
			return errHelp
		}
		return cli.createInstructor(ctx, *uname, *email, *first, *last, *bio)

	case "deluser":
		fs := flag.NewFlagSet("deluser", flag.ExitOnError)
		id := fs.String("id", "", "User ID.")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.deleteUser(ctx, *id)

	case "watch":
		return cli.watch(ctx)

	case "chat":
		id, err := parseCourseFlag("chat", args[2:])
		if err != nil {
			return err
		}
		return cli.chat(ctx, id)

	default:
		cli.printUsage()
		return errHelp
	}
}

func parseCourseID(cmd string, args []string) (string, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	id := fs.String("id", "", "Course ID.")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" {
		fs.Usage()
		return "", errHelp
	}
	return *id, nil
}

func parseCourseFlag(cmd string, args []string) (string, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	id := fs.String("course", "", "Course ID.")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" {
		fs.Usage()
		return "", errHelp
	}
	return *id, nil
}
