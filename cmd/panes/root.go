package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/config"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/ui"
	"github.com/vanderheijden86/panes/pkg/version"
)

// app carries the global flags and the loaded configuration.
type app struct {
	cfgFile    string
	workers    int
	debug      bool
	cpuProfile string

	cfg         config.Config
	stopProfile func()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "panes [dir...]",
		Short: "Tabbed terminal file manager with background metadata",
		Long: `panes ` + version.Version + `
Browse directories in tabs. Column values, folder sizes and directory
changes are computed on a worker pool and merged into the listing as they
arrive.

With no directory, the tabs from the config file are opened, or the
current directory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
		RunE:              a.runTUI,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Configuration file path (default ~/.config/panes/config.yaml)")
	root.PersistentFlags().IntVar(&a.workers, "workers", 0, "Worker goroutines (0 = config, then one per CPU)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Write debug logs to stderr (or the state dir while the TUI runs)")
	root.PersistentFlags().StringVar(&a.cpuProfile, "cpu-profile", "", "Write CPU profile to file")

	root.Version = version.String()
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newLsCmd(a), newDuCmd(a), newWatchCmd(a), newInitCmd(a), newKeysCmd(), newVersionCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadFrom(a.cfgFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.workers > 0 {
		a.cfg.Workers = a.workers
	}
	if a.debug {
		debug.SetOutput(true, cmd.ErrOrStderr())
	}

	a.stopProfile = func() {}
	if a.cpuProfile != "" {
		f, err := os.Create(a.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		a.stopProfile = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}
	return nil
}

func (a *app) teardown() {
	if a.stopProfile != nil {
		a.stopProfile()
	}
}

// windowConfig builds the engine configuration for a front end.
func (a *app) windowConfig() (browser.WindowConfig, error) {
	cols, err := a.cfg.ColumnTypes()
	if err != nil {
		return browser.WindowConfig{}, err
	}
	wc := browser.DefaultWindowConfig()
	wc.Workers = a.cfg.Workers
	wc.Settings = a.cfg.Settings()
	wc.Columns = cols
	wc.Watch = a.cfg.Watch.Enabled
	wc.WatchOptions = a.cfg.WatchOptions()
	return wc, nil
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	dirs := args
	if len(dirs) == 0 {
		dirs = a.cfg.Tabs
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	if a.debug {
		// The terminal belongs to the TUI; send logs to a file instead.
		logDir := config.StateDir()
		if err := os.MkdirAll(logDir, 0o755); err == nil {
			if f, err := os.OpenFile(filepath.Join(logDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				defer f.Close()
				debug.SetOutput(true, f)
			}
		}
	}

	wc, err := a.windowConfig()
	if err != nil {
		return err
	}
	win := browser.NewWindow(wc)
	defer win.Close()

	for _, dir := range dirs {
		if err := win.NewTab().Navigate(dir); err != nil {
			return err
		}
	}

	m := ui.NewModel(win, ui.Options{
		Bookmarks:         a.cfg.Bookmarks,
		HideDisplayWindow: !a.cfg.DisplayWindow.Visible,
	}).WithTheme(ui.DefaultTheme(lipgloss.NewRenderer(cmd.OutOrStdout())))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "panes %s\n", version.String())
		},
	}
}
