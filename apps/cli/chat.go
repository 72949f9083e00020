package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/services/backend"
)

// chat joins one course room for the lifetime of the command. Messages are
// shown in delivery order; own messages appear only once the server
// rebroadcasts them.
func (cli *commandLine) chat(ctx context.Context, courseID string) error {
	usr, err := cli.guard()
	if err != nil {
		return err
	}

	crs, err := cli.findCourse(ctx, courseID)
	if err != nil {
		return err
	}

	sess, err := cli.api.OpenChat(ctx, crs, crs.Enrollment, usr)
	if err != nil {
		// precondition failures get the disabled view, not an error exit
		if errors.Is(err, course.ErrChatNotOwner) ||
			errors.Is(err, course.ErrChatNotEnrolled) ||
			errors.Is(err, course.ErrChatRole) {
			fmt.Println("Chat unavailable:", err)
			return nil
		}
		return err
	}
	defer sess.Close()

	// input loop: one message per line
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := sess.Send(scanner.Text()); err != nil {
				if errors.Is(err, backend.ErrChatEmptyMessage) {
					continue
				}
				cli.notifier.Error(err.Error())
			}
		}
	}()

	fmt.Printf("Joined %q (ctrl-c to leave)...\n", crs.Title)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sess.Messages():
			if !ok {
				if sess.State() == backend.ChatJoinFailed {
					return nil // failure already surfaced as a notification
				}
				fmt.Println("chat disconnected; rerun chat to rejoin")
				return nil
			}
			fmt.Printf("%s  %s: %s\n", msg.CreatedAt.Format("15:04:05"), msg.Username, msg.Text)
		}
	}
}

// findCourse scans the course listing for one ID; for students the listing
// carries their own enrollment, which the chat precondition needs.
func (cli *commandLine) findCourse(ctx context.Context, id string) (course.Course, error) {
	for page := 1; ; page++ {
		res, err := cli.api.Courses(ctx, course.QueryFilter{Page: page, Limit: 50})
		if err != nil {
			return course.Course{}, err
		}
		for _, crs := range res.Data {
			if crs.ID == id {
				return crs, nil
			}
		}
		if len(res.Data) == 0 || page*50 >= res.Total {
			return course.Course{}, fmt.Errorf("course %s not found", id)
		}
	}
}
