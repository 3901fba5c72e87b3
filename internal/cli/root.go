package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hbjs97/vew/internal/activation"
	"github.com/hbjs97/vew/internal/cmdexec"
	"github.com/hbjs97/vew/internal/config"
	"github.com/hbjs97/vew/internal/hook"
	"github.com/hbjs97/vew/internal/lifecycle"
	"github.com/hbjs97/vew/internal/logging"
	"github.com/hbjs97/vew/internal/native"
	"github.com/hbjs97/vew/internal/registry"
	"github.com/hbjs97/vew/internal/session"
	"github.com/hbjs97/vew/internal/setup"
	"github.com/hbjs97/vew/internal/shell"
	"github.com/spf13/cobra"
)

// App은 모든 명령이 공유하는 의존성을 담는다.
type App struct {
	Commander cmdexec.Commander
	CfgPath   string
	ShellType string
	Verbose   bool
	// Forms는 setup --interactive의 입력 폼을 실행한다.
	Forms setup.FormRunner
	// Environ은 호출자의 환경변수를 반환한다. 기본값은 os.Environ이다.
	Environ func() []string
}

// NewApp은 프로덕션용 App을 생성한다.
func NewApp() *App {
	return &App{
		Commander: &cmdexec.RealCommander{},
		CfgPath:   config.DefaultPath(),
		Forms:     &setup.HuhFormRunner{},
		Environ:   os.Environ,
	}
}

// NewRootCmd는 vew 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vew",
		Short:        "Manage Python virtual environments under one root directory",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.ShellType != "" && !shell.IsSupported(a.ShellType) {
				return fmt.Errorf("cli: unsupported shell %q (supported: %v)", a.ShellType, shell.Supported)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", a.CfgPath, "config file path")
	cmd.PersistentFlags().BoolVar(&a.Verbose, "verbose", false, "verbose output")
	cmd.PersistentFlags().StringVar(&a.ShellType, "shell", "", "emit shell code for eval (bash, zsh, fish)")

	cmd.AddCommand(
		a.newWorkonCmd(),
		a.newDeactivateCmd(),
		a.newMkvirtualenvCmd(),
		a.newRmvirtualenvCmd(),
		a.newLsvirtualenvCmd(),
		a.newShowCmd(),
		a.newSetupCmd(),
		a.newDoctorCmd(),
	)
	return cmd
}

// env는 설정과 호출자 환경으로 만든 호출 단위 구성이다.
type env struct {
	cfg       *config.Config
	base      *session.Session
	sess      *session.Session
	logger    *slog.Logger
	registry  *registry.Registry
	hooks     *hook.Runner
	machine   *activation.Machine
	lifecycle *lifecycle.Lifecycle
}

// out은 사람이 읽는 출력 대상이다. stdout이 eval되는 경우 stderr를 쓴다.
func (a *App) out(cmd *cobra.Command) io.Writer {
	if a.ShellType != "" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func (a *App) environ() []string {
	if a.Environ == nil {
		return os.Environ()
	}
	return a.Environ()
}

func (a *App) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if a.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewWriter(cmd.ErrOrStderr(), level)

	base := session.FromEnviron(a.environ())
	sess := base.Clone()
	root, err := cfg.Root(sess.Lookup)
	if err != nil {
		return nil, err
	}

	runner := hook.NewRunner(a.Commander, logger)
	runner.Stdout = a.out(cmd)
	runner.Stderr = cmd.ErrOrStderr()
	act, err := native.New(cfg.Activation, runner)
	if err != nil {
		return nil, fmt.Errorf("cli: %w: %v", config.ErrConfig, err)
	}
	builder := &lifecycle.CommandBuilder{
		Commander: a.Commander,
		Command:   cfg.Builder,
		Args:      cfg.BuilderArgs,
		Stdout:    a.out(cmd),
		Stderr:    cmd.ErrOrStderr(),
	}

	reg := registry.New(root)
	if reg.VerifyRoot() == nil {
		if err := hook.InitializeGlobal(root); err != nil {
			logger.Warn("could not create global hooks", "root", root, "error", err)
		}
	}
	machine := activation.New(reg, runner, act, logger)

	return &env{
		cfg:       cfg,
		base:      base,
		sess:      sess,
		logger:    logger,
		registry:  reg,
		hooks:     runner,
		machine:   machine,
		lifecycle: lifecycle.New(reg, runner, machine, builder, logger),
	}, nil
}

// emit은 세션 변경 사항을 셸 코드로 출력한다. --shell 없이는 호출자 셸에
// 반영할 수 없으므로 안내만 출력한다.
func (a *App) emit(cmd *cobra.Command, e *env) {
	changes := e.sess.Diff(e.base)
	if len(changes) == 0 {
		return
	}
	if a.ShellType == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "vew: shell integration not active; run 'vew setup' or eval the output of 'vew --shell <shell> ...'")
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), shell.Script(changes, a.ShellType))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
