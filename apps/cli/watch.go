package main

import (
	"context"
	"fmt"

	"github.com/trezcool/darasa/core/event"
	"github.com/trezcool/darasa/core/user"
)

// watch follows the admin analytics stream: transient events layered atop
// whatever the dashboards fetched over REST. The stream has no reconnect on
// drop; rerunning the command reopens it.
func (cli *commandLine) watch(ctx context.Context) error {
	if _, err := cli.guard(user.RoleAdmin); err != nil {
		return err
	}

	stream, err := cli.api.OpenEvents(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	feed := event.NewFeed()
	fmt.Println("Watching live events (ctrl-c to stop)...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-stream.Events():
			if !ok {
				fmt.Println("event stream closed; rerun watch to reconnect")
				return nil
			}
			feed.Add(evt)
			if label, known := event.Label(evt.Kind); known {
				cli.notifier.Success(label)
			}
			who := ""
			if evt.User != nil {
				who = " by " + evt.User.Username
			}
			fmt.Printf("%s  %s%s  (last %d buffered)\n",
				evt.CreatedAt.Format("15:04:05"), evt.Kind, who, feed.Len())
		}
	}
}
