package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/columns"
)

type lsOptions struct {
	columns     string
	jsonOut     bool
	sort        string
	desc        bool
	all         bool
	folderSizes bool
}

type lsEntry struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Dir     bool              `json:"dir"`
	Columns map[string]string `json:"columns"`
}

func newLsCmd(a *app) *cobra.Command {
	var o lsOptions
	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List a directory with computed columns",
		Long: `List a directory through the background engine and print every
requested column once all values have arrived.

Columns: name, type, size, date_modified, date_created, date_accessed,
attributes, real_size, owner, group, hard_links, extension, shortcut_to,
image_width, image_height, total_size, free_space.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runLs(cmd, dir, o)
		},
	}
	cmd.Flags().StringVar(&o.columns, "columns", "", "Comma separated columns (default from config)")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "Print JSON")
	cmd.Flags().StringVar(&o.sort, "sort", "name", "Sort column")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVarP(&o.all, "all", "a", false, "Include hidden files")
	cmd.Flags().BoolVar(&o.folderSizes, "folder-sizes", false, "Compute recursive sizes for folders")
	return cmd
}

func (a *app) runLs(cmd *cobra.Command, dir string, o lsOptions) error {
	if o.columns != "" {
		a.cfg.Columns = strings.Split(o.columns, ",")
	}
	wc, err := a.windowConfig()
	if err != nil {
		return err
	}
	wc.Watch = false
	if o.all {
		wc.Settings.ShowHidden = true
	}
	if o.folderSizes {
		wc.Settings.ShowFolderSizes = true
	}
	sortCol, err := columns.ParseType(o.sort)
	if err != nil {
		return err
	}

	win := browser.NewWindow(wc)
	defer win.Close()
	tab := win.NewTab()
	if err := tab.Navigate(dir); err != nil {
		return err
	}
	tab.SortBy(sortCol, !o.desc)
	tab.RequestAll()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := win.DrainPending(ctx); err != nil {
		return fmt.Errorf("waiting for column values: %w", err)
	}

	view := tab.View()
	cols := view.Columns()
	out := cmd.OutOrStdout()

	if o.jsonOut {
		entries := make([]lsEntry, 0, view.ItemCount())
		for row := 0; row < view.ItemCount(); row++ {
			idx, _ := tab.RowItem(row)
			info, _ := tab.Item(idx)
			e := lsEntry{Name: info.Name, Path: info.Path, Dir: info.IsDir(), Columns: make(map[string]string, len(cols))}
			for i, c := range cols {
				e.Columns[columns.Type(c.ID).String()] = view.ItemText(row, i)
			}
			entries = append(entries, e)
		}
		return writeJSON(out, entries)
	}

	t := &table{}
	for _, c := range cols {
		t.titles = append(t.titles, c.Title)
		t.right = append(t.right, c.Right)
	}
	for row := 0; row < view.ItemCount(); row++ {
		idx, _ := tab.RowItem(row)
		info, _ := tab.Item(idx)
		cells := make([]string, len(cols))
		for i := range cols {
			cells[i] = view.ItemText(row, i)
		}
		t.add(cells, info.IsDir())
	}
	return t.write(out, newStyles(out))
}
