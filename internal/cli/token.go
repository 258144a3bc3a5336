package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/gatehouse/internal/qrcode"
)

// now is the clock token validation reads "today" from.
var now = time.Now

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect visitor access tokens",
	}
	cmd.AddCommand(newTokenDecodeCmd(), newTokenValidateCmd())
	return cmd
}

func newTokenDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Show what an access token contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := qrcode.Decode(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, p)
			}
			printPayload(out, p)
			return nil
		},
	}
}

func newTokenValidateCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "validate <token>",
		Short: "Check an access token against a visit date",
		Long:  "Check that an access token decodes and was issued for the given date (default: today in the configured timezone). Exits with an error when it was not.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				cfg, err := resolveConfig()
				if err != nil {
					return err
				}
				loc, err := cfg.Location()
				if err != nil {
					return err
				}
				date = now().In(loc).Format("2006-01-02")
			}
			valid := qrcode.Validate(args[0], date)

			out := cmd.OutOrStdout()
			if isJSON() {
				if err := printJSON(out, map[string]any{"valid": valid, "date": date}); err != nil {
					return err
				}
			} else if valid {
				fmt.Fprintf(out, "✓ valid for %s\n", date)
			}
			if !valid {
				return fmt.Errorf("token is not valid for %s", date)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "expected visit date, YYYY-MM-DD (default: today)")
	return cmd
}
