package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/trezcool/darasa/core/user"
)

func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Print(label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) login(ctx context.Context, uname string) error {
	pwd, err := cli.promptPassword("Enter password: ")
	if err != nil {
		return err
	}
	_, err = cli.sess.Login(ctx, user.Login{Username: uname, Password: pwd})
	return err
}

func (cli *commandLine) logout(ctx context.Context) error {
	cli.sess.Logout(ctx)
	cli.notifier.Success("Logged out.")
	return nil
}

func (cli *commandLine) whoami() error {
	usr, err := cli.guard()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> (%s)\n", usr.Name(), usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) register(ctx context.Context, uname, email, first, last string) error {
	pwd, err := cli.promptPassword("Choose a password: ")
	if err != nil {
		return err
	}
	in := user.NewUser{Username: uname, Email: email, FirstName: first, LastName: last, Password: pwd}
	if err := in.Validate(); err != nil {
		return err
	}
	usr, err := cli.api.Register(ctx, in)
	if err != nil {
		return err
	}
	cli.notifier.Success("Account created for " + usr.Username + "; you can log in now.")
	return nil
}

func (cli *commandLine) updateProfile(ctx context.Context, first, last, bio string, promptPwd bool) error {
	if _, err := cli.guard(); err != nil {
		return err
	}
	in := user.UpdateProfile{FirstName: first, LastName: last, Bio: bio}
	if promptPwd {
		pwd, err := cli.promptPassword("New password: ")
		if err != nil {
			return err
		}
		in.Password = pwd
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := cli.api.UpdateProfile(ctx, in); err != nil {
		return err
	}
	cli.notifier.Success("Profile updated.")
	return nil
}

func (cli *commandLine) deleteAccount(ctx context.Context) error {
	if _, err := cli.guard(); err != nil {
		return err
	}
	if err := cli.api.DeleteAccount(ctx); err != nil {
		return err
	}
	cli.sess.Logout(ctx)
	cli.notifier.Success("Account deleted.")
	return nil
}
