package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/hbjs97/vew/internal/doctor"
	"github.com/hbjs97/vew/internal/shell"
	"github.com/spf13/cobra"
)

var errDoctorFailed = errors.New("one or more checks failed")

func (a *App) newDoctorCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the vew installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := a.out(cmd)
			e, err := a.load(cmd)
			if err != nil {
				printDiagResults(w, []doctor.DiagResult{{
					Name:    "config",
					Status:  doctor.StatusFail,
					Message: err.Error(),
					Fix:     fmt.Sprintf("fix or remove %s", a.CfgPath),
				}})
				return err
			}

			results := doctor.RunAll(commandContext(cmd), a.Commander, e.registry, e.cfg.Builder, e.sess.Get(shell.IntegrationVar))
			if err := render(w, format, results, func(w io.Writer) { printDiagResults(w, results) }); err != nil {
				return err
			}
			for _, r := range results {
				if r.Status == doctor.StatusFail {
					return fmt.Errorf("cli.doctor: %w", errDoctorFailed)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func printDiagResults(w io.Writer, results []doctor.DiagResult) {
	for _, r := range results {
		fmt.Fprintf(w, "  [%s] %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return "OK"
	case doctor.StatusWarn:
		return "!!"
	case doctor.StatusFail:
		return "FAIL"
	default:
		return "??"
	}
}
