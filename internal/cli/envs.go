package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireName은 환경 이름 없는 호출을 거부한다.
func requireName(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return fmt.Errorf("cli.%s: %w", cmd.Name(), ErrMissingName)
	}
	return nil
}

func (a *App) newMkvirtualenvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkvirtualenv <name> [-- builder-args...]",
		Short: "Create an environment and activate it",
		Long: `Create an environment by running the configured builder inside the root
directory, then activate it. Arguments after "--" are passed to the builder
before the environment name.`,
		Args: requireName,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd)
			if err != nil {
				return err
			}
			if err := e.lifecycle.Create(commandContext(cmd), e.sess, args[0], args[1:]...); err != nil {
				return err
			}
			a.emit(cmd, e)
			return nil
		},
	}
}

func (a *App) newRmvirtualenvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rmvirtualenv <name>",
		Short: "Delete an environment",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := requireName(cmd, args); err != nil {
				return err
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd)
			if err != nil {
				return err
			}
			if err := e.lifecycle.Remove(commandContext(cmd), e.sess, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out(cmd), "Removed %s\n", e.registry.Path(args[0]))
			return nil
		},
	}
}
