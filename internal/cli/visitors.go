package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/gatehouse/internal/visitor"
)

func newCheckInCmd() *cobra.Command {
	var guard string

	cmd := &cobra.Command{
		Use:   "checkin <visitor id>",
		Short: "Check a registered visitor in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if guard == "" {
				guard = getGuard()
			}
			v, err := newAPIClient().CheckIn(cmd.Context(), args[0], guard)
			if err != nil {
				return fmt.Errorf("checking in %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, v)
			}
			fmt.Fprintf(out, "%s checked in at %s by %s\n", v.VisitorName, formatTime(v.CheckInTime), v.GuardOnDuty)
			return nil
		},
	}

	cmd.Flags().StringVar(&guard, "guard", "", "guard on duty (default: config or GATE_GUARD)")
	return cmd
}

func newCheckOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <visitor id>",
		Short: "Check an active visitor out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newAPIClient().CheckOut(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("checking out %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, v)
			}
			fmt.Fprintf(out, "%s checked out at %s\n", v.VisitorName, formatTime(v.CheckOutTime))
			return nil
		},
	}
}

func newVisitorsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "visitors",
		Short: "List visitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := visitor.Status(status)
			if st != "" && !st.IsValid() {
				return fmt.Errorf("invalid status %q (registered|active|completed|overdue)", status)
			}

			visitors, err := newAPIClient().ListVisitors(cmd.Context(), st)
			if err != nil {
				return fmt.Errorf("listing visitors: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, visitors)
			}
			return printVisitorTable(out, visitors)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only visitors with this status (registered|active|completed|overdue)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark overdue visitors now",
		Long:  "Ask the server to move every checked-in visitor past their visit window to overdue, without waiting for the next scheduled sweep.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newAPIClient().Sweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("running sweep: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]int{"overdue": n})
			}
			fmt.Fprintf(out, "%d visitor(s) marked overdue\n", n)
			return nil
		},
	}
}
