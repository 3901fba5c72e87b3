package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newWorkonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workon [name]",
		Short: "Activate an environment, or list environments when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runWorkon(cmd, name)
		},
	}
}

func (a *App) runWorkon(cmd *cobra.Command, name string) error {
	e, err := a.load(cmd)
	if err != nil {
		return err
	}

	names, err := e.machine.ListOrSwitch(commandContext(cmd), e.sess, name)
	if errors.Is(err, ErrNoTarget) {
		for _, n := range names {
			fmt.Fprintln(a.out(cmd), n)
		}
		return nil
	}
	if err != nil {
		return err
	}

	a.emit(cmd, e)
	return nil
}

func (a *App) newDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate the active environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd)
			if err != nil {
				return err
			}
			if err := e.machine.Deactivate(commandContext(cmd), e.sess); err != nil {
				return err
			}
			a.emit(cmd, e)
			return nil
		},
	}
}
