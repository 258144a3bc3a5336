package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/evcraddock/gatehouse/internal/qrcode"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitorSummary prints a single visitor in text format.
func printVisitorSummary(w io.Writer, v *visitor.Visitor) {
	fmt.Fprintf(w, "Visitor %s\n", v.ID)
	fmt.Fprintf(w, "  Name:     %s (%d)\n", v.VisitorName, v.NumberOfVisitors)
	fmt.Fprintf(w, "  Visiting: %s, %s\n", v.ResidentName, v.VisitingUnit)
	fmt.Fprintf(w, "  When:     %s %s\n", v.VisitDate, v.VisitTime)
	fmt.Fprintf(w, "  Purpose:  %s\n", v.PurposeOfVisit)
	if v.VehicleNumber != "" {
		fmt.Fprintf(w, "  Vehicle:  %s\n", v.VehicleNumber)
	}
	fmt.Fprintf(w, "  Status:   %s\n", v.Status.Label())
}

// printVisitorTable prints a list of visitors as a formatted table.
func printVisitorTable(out io.Writer, visitors []visitor.Visitor) error {
	if len(visitors) == 0 {
		fmt.Fprintln(out, "No visitors found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tUNIT\tDATE\tTIME\tSTATUS\tIN\tOUT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t----\t----\t----\t------\t--\t---"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, v := range visitors {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, truncate(v.VisitorName, 24), v.VisitingUnit, v.VisitDate, v.VisitTime,
			v.Status.Label(), formatClock(v.CheckInTime), formatClock(v.CheckOutTime)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d visitors\n", len(visitors))
	return nil
}

// printPayload prints a decoded access token in text format.
func printPayload(w io.Writer, p *qrcode.Payload) {
	fmt.Fprintf(w, "Visitor:   %s\n", p.VisitorID)
	fmt.Fprintf(w, "Date:      %s\n", p.VisitDate)
	fmt.Fprintf(w, "Unit:      %s\n", p.Unit)
	if at, err := p.GeneratedAt(); err == nil {
		fmt.Fprintf(w, "Issued:    %s\n", at.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintf(w, "Issued:    %s\n", p.Timestamp)
	}
}

// formatTime formats an optional timestamp for display.
func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatClock formats an optional timestamp as a local time of day.
func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("15:04")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
