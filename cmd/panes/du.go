package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/foldersize"
	"github.com/vanderheijden86/panes/pkg/volume"
)

type duReport struct {
	Path   string            `json:"path"`
	Total  string            `json:"total"`
	Result foldersize.Result `json:"result"`
	Volume *volume.Info      `json:"volume,omitempty"`
}

func newDuCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "du [dir]",
		Short: "Print the recursive size of a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runDu(cmd, dir, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	return cmd
}

func (a *app) runDu(cmd *cobra.Command, dir string, jsonOut bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wc, err := a.windowConfig()
	if err != nil {
		return err
	}
	wc.Watch = false

	// An interrupt ends the drain; closing the window then stops the walk.
	win := browser.NewWindow(wc)
	defer win.Close()
	tab := win.NewTab()
	win.RequestFolderSize(abs, tab.ID())
	if err := win.DrainPending(ctx); err != nil {
		return fmt.Errorf("computing folder size: %w", err)
	}
	res, ok := win.LastFolderSize()
	if !ok {
		return fmt.Errorf("computing folder size of %s: result was discarded", abs)
	}

	line := win.Display().Line(browser.FolderSizeLine)
	s := win.Settings()
	out := cmd.OutOrStdout()
	if jsonOut {
		r := duReport{Path: abs, Total: columns.FormatSize(res.Bytes, s.ForceSize, s.SizeUnit), Result: res}
		if info, ok := volume.Stat(abs); ok {
			r.Volume = &info
		}
		return writeJSON(out, r)
	}

	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "%d files, %d folders\n", res.Files, res.Folders)
	if res.Partial {
		fmt.Fprintf(out, "incomplete: %d entries could not be read\n", res.Errors)
	}
	if info, ok := volume.Stat(abs); ok {
		where := "local"
		if info.Remote {
			where = "network"
		}
		fmt.Fprintf(out, "Volume: %s free of %s (%s)\n",
			columns.FormatSize(info.Free, false, columns.UnitAuto),
			columns.FormatSize(info.Total, false, columns.UnitAuto), where)
	}
	return nil
}
