package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/config"
)

func newInitCmd(a *app) *cobra.Command {
	var defaults, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Ask for the common settings and write them to the configuration file.
The answers start from the current configuration. With --defaults nothing is
asked and the current configuration is written as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.ConfigPath()
			}
			if path == "" {
				return errors.New("cannot determine config directory")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := a.cfg
			if !defaults {
				if err := runWizard(&cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.SaveTo(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Write without asking")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeCharm())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

func runWizard(cfg *config.Config) error {
	var colOpts []huh.Option[string]
	for _, c := range columns.All() {
		if c == columns.Name {
			continue
		}
		colOpts = append(colOpts, huh.NewOption(c.Title(), c.String()))
	}
	var picked []string
	for _, name := range cfg.Columns {
		if t, err := columns.ParseType(name); err == nil && t != columns.Name {
			picked = append(picked, t.String())
		}
	}

	var unitOpts []huh.Option[string]
	for u := columns.UnitAuto; u <= columns.UnitPB; u++ {
		unitOpts = append(unitOpts, huh.NewOption(u.String(), u.String()))
	}
	unit := cfg.Folders.SizeUnit
	if unit == "" {
		unit = columns.UnitAuto.String()
	}
	workers := strconv.Itoa(cfg.Workers)

	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Columns").
				Description("Name is always shown first").
				Options(colOpts...).
				Value(&picked),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show recursive folder sizes?").
				Value(&cfg.Folders.ShowFolderSizes),
			huh.NewConfirm().
				Title("Skip folder sizes on network and removable drives?").
				Value(&cfg.Folders.DisableFolderSizesNetworkRemovable),
			huh.NewSelect[string]().
				Title("Size unit").
				Options(unitOpts...).
				Value(&unit),
			huh.NewConfirm().
				Title("Friendly dates (Today, Yesterday)?").
				Value(&cfg.Folders.FriendlyDates),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Watch directories for changes?").
				Value(&cfg.Watch.Enabled),
			huh.NewInput().
				Title("Worker goroutines").
				Description("0 uses one per CPU").
				Value(&workers).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return errors.New("enter a number, 0 or more")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Columns = append([]string{columns.Name.String()}, picked...)
	cfg.Folders.SizeUnit = unit
	cfg.Folders.ForceSize = unit != columns.UnitAuto.String()
	cfg.Workers, _ = strconv.Atoi(workers)
	return nil
}
