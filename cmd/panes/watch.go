package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/dirwatch"
)

func newWatchCmd(a *app) *cobra.Command {
	var recursive, poll bool
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Print directory changes until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if recursive {
				a.cfg.Watch.Recursive = true
			}
			if poll {
				a.cfg.Watch.ForcePoll = true
			}
			return a.runWatch(cmd, dir)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Also report changes in subdirectories")
	cmd.Flags().BoolVar(&poll, "poll", false, "Poll instead of using filesystem notifications")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, dir string) error {
	wc, err := a.windowConfig()
	if err != nil {
		return err
	}
	wc.Watch = true

	win := browser.NewWindow(wc)
	defer win.Close()
	tab := win.NewTab()
	if err := tab.Navigate(dir); err != nil {
		return err
	}
	if tab.WatchID() == 0 {
		return errors.New("could not watch " + tab.Dir())
	}

	out := cmd.OutOrStdout()
	mode := "notify"
	if win.Watches().Polling(tab.WatchID()) {
		mode = "polling"
	}
	fmt.Fprintf(out, "watching %s (%s), %d items\n", tab.Dir(), mode, tab.View().ItemCount())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	for {
		msg, ok := win.Mailbox().Next(ctx)
		if !ok {
			return nil
		}
		if change, ok := msg.(browser.DirectoryChangeMsg); ok {
			switch change.Kind {
			case dirwatch.Renamed:
				fmt.Fprintf(out, "%-8s %s -> %s\n", change.Kind, change.OldPath, change.Path)
			default:
				fmt.Fprintf(out, "%-8s %s\n", change.Kind, change.Path)
			}
		}
		win.Dispatch(msg)
	}
}
