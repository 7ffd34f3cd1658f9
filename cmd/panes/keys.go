package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/panes/pkg/ui"
)

func newKeysCmd() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:               "keys",
		Short:             "Show the TUI key bindings",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if markdown {
				_, err := fmt.Fprint(out, ui.KeyReference())
				return err
			}
			width := 80
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
				width = w
			}
			s, err := ui.RenderKeyReference(width, useColor(out))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, s)
			return err
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the raw markdown")
	return cmd
}
