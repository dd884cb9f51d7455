package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raushankrgupta/virtual-try-on/storage"
	"github.com/spf13/cobra"
)

func newThemeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [on|off]",
		Short:     "Show or set the dark-mode preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := storage.New(ctx, a.cfg.Prefs)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				dark, err := parseOnOff(args[0])
				if err != nil {
					return err
				}
				if err := storage.SaveTheme(ctx, store, storage.ThemeKey, dark); err != nil {
					return fmt.Errorf("failed to save theme preference: %w", err)
				}
			}

			dark, err := storage.LoadTheme(ctx, store, storage.ThemeKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dark mode: %s\n", onOff(dark))
			return nil
		},
	}
	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "dark":
		return true, nil
	case "off", "light":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
