package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/darasa/core/user"
)

func (cli *commandLine) listUsers(ctx context.Context, role string, page, limit int) error {
	if _, err := cli.guard(user.RoleAdmin); err != nil {
		return err
	}
	if role != "" && !user.IsValidRole(role) {
		return fmt.Errorf("unknown role %q (want one of %s)", role, strings.Join(user.AllRoles, ", "))
	}
	res, err := cli.api.Users(ctx, user.QueryFilter{Page: page, Limit: limit, Role: role})
	if err != nil {
		return err
	}
	for _, usr := range res.Data {
		fmt.Printf("%s  %-12s %s <%s>\n", usr.ID, usr.Role, usr.Name(), usr.Email)
	}
	fmt.Printf("page %d of %d user(s)\n", res.Page, res.Total)
	return nil
}

func (cli *commandLine) createInstructor(ctx context.Context, uname, email, first, last, bio string) error {
	if _, err := cli.guard(user.RoleAdmin); err != nil {
		return err
	}
	pwd, err := cli.promptPassword("Instructor password: ")
	if err != nil {
		return err
	}
	in := user.NewInstructor{Username: uname, Email: email, FirstName: first, LastName: last, Password: pwd, Bio: bio}
	if err := in.Validate(); err != nil {
		return err
	}
	usr, err := cli.api.CreateInstructor(ctx, in)
	if err != nil {
		return err
	}
	cli.notifier.Success("Instructor created: " + usr.Username)
	return nil
}

func (cli *commandLine) deleteUser(ctx context.Context, id string) error {
	if _, err := cli.guard(user.RoleAdmin); err != nil {
		return err
	}
	if err := cli.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	cli.notifier.Success("User deleted.")
	return nil
}
