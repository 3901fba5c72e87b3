package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbjs97/vew/internal/config"
	"github.com/hbjs97/vew/internal/session"
	"github.com/hbjs97/vew/internal/setup"
	"github.com/hbjs97/vew/internal/shell"
	"github.com/spf13/cobra"
)

// setupTemplate는 vew setup이 생성하는 기본 config.toml 내용이다.
const setupTemplate = `# vew configuration file

version = 1
# Directory holding all environments. WORKON_HOME overrides it.
workon_home = "~/.virtualenvs"
# Command that builds an environment: <builder> <builder_args...> <args...> <name>
builder = "virtualenv"
# builder_args = ["--python=python3"]
# "builtin" or "script" (source bin/activate)
activation = "builtin"
# debug, info, warn, error
log_level = "warn"
`

func (a *App) newSetupCmd() *cobra.Command {
	var printOnly, noRC, interactive bool
	var rcPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Write a config file and install the shell integration",
		Long: `Write a config file and install the shell integration.

With --print, only the integration snippet is printed. It is meant to be
loaded from the shell's rc file:

  eval "$(vew setup --print --shell zsh)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shellType := a.ShellType
			if shellType == "" {
				shellType = setup.DetectShell()
			}
			if !shell.IsSupported(shellType) {
				return fmt.Errorf("cli.setup: unsupported shell %q (supported: %v)", shellType, shell.Supported)
			}
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), shell.Snippet(shellType))
				return nil
			}

			w := cmd.ErrOrStderr()
			write := writeConfigTemplate
			if interactive {
				write = a.runConfigForm
			}
			if err := write(a.CfgPath); err != nil {
				return err
			}
			fmt.Fprintf(w, "config: %s\n", a.CfgPath)

			cfg, err := config.Load(a.CfgPath)
			if err != nil {
				return err
			}
			root, err := cfg.Root(session.FromEnviron(a.environ()).Lookup)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(root, 0755); err != nil {
				return fmt.Errorf("cli.setup: %w", err)
			}
			fmt.Fprintf(w, "root:   %s\n", root)

			if noRC {
				return nil
			}
			if rcPath == "" {
				rcPath = setup.ShellRCPath(shellType)
			}
			if err := setup.InstallShellHook(shellType, rcPath); err != nil {
				return err
			}
			fmt.Fprintf(w, "shell:  %s (restart the shell or source it)\n", rcPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the shell integration snippet and exit")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask for the config values instead of writing a template")
	cmd.Flags().BoolVar(&noRC, "no-rc", false, "do not modify the shell rc file")
	cmd.Flags().StringVar(&rcPath, "rc", "", "rc file to install the integration into")
	return cmd
}

// writeConfigTemplate는 파일이 없을 때만 setupTemplate를 기록한다.
func writeConfigTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cli.setup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("cli.setup: %w", err)
	}
	if err := os.WriteFile(path, []byte(setupTemplate), 0600); err != nil {
		return fmt.Errorf("cli.setup: %w", err)
	}
	return nil
}

// runConfigForm은 설정 값을 입력받아 저장한다.
// 기존 파일은 확인 후에만 덮어쓴다.
func (a *App) runConfigForm(path string) error {
	if a.Forms == nil {
		return fmt.Errorf("cli.setup: interactive setup unavailable")
	}
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
	}
	if _, err := os.Stat(path); err == nil {
		ok, err := a.Forms.RunConfirm(fmt.Sprintf("Overwrite %s?", path))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	answers, err := a.Forms.RunConfigForm(setup.AnswersFrom(cfg))
	if err != nil {
		return err
	}
	answers.Apply(cfg)
	return config.Save(path, cfg)
}
