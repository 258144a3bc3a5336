package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/gatehouse/internal/visitor"
)

func newRegisterCmd() *cobra.Command {
	var reg visitor.Registration

	cmd := &cobra.Command{
		Use:   "register <visitor name>",
		Short: "Register a visitor",
		Long:  "Register a visitor for a unit. The visit date and time default to now. Prints the visitor ID and the access token to show at the gate.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg.VisitorName = args[0]
			if reg.VisitDate == "" || reg.VisitTime == "" {
				cfg, err := resolveConfig()
				if err != nil {
					return err
				}
				loc, err := cfg.Location()
				if err != nil {
					return err
				}
				t := now().In(loc)
				if reg.VisitDate == "" {
					reg.VisitDate = t.Format("2006-01-02")
				}
				if reg.VisitTime == "" {
					reg.VisitTime = t.Format("15:04")
				}
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			v, err := newAPIClient().RegisterVisitor(cmd.Context(), reg)
			if err != nil {
				return fmt.Errorf("registering visitor: %w", err)
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, v)
			}
			fmt.Fprintf(out, "Registered %s\n\n", v.ID)
			printVisitorSummary(out, v)
			fmt.Fprintf(out, "\nAccess token:\n%s\n", v.QRCode)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&reg.ContactNumber, "contact", "", "visitor contact number")
	f.StringVar(&reg.Email, "email", "", "visitor email")
	f.StringVar(&reg.VisitingUnit, "unit", "", "unit being visited")
	f.StringVar(&reg.ResidentName, "resident", "", "resident being visited")
	f.StringVar(&reg.VisitDate, "date", "", "visit date, YYYY-MM-DD (default: today)")
	f.StringVar(&reg.VisitTime, "time", "", "visit time, HH:MM (default: now)")
	f.StringVar(&reg.PurposeOfVisit, "purpose", "", "purpose of the visit")
	f.StringVar(&reg.VehicleNumber, "vehicle", "", "vehicle plate number")
	f.IntVar(&reg.NumberOfVisitors, "visitors", 1, "number of people in the party")
	f.StringVar(&reg.IdentificationNumber, "id-number", "", "identification document number")
	f.StringVar(&reg.IdentificationType, "id-type", "ic", "identification document type (ic|passport|license)")

	return cmd
}
