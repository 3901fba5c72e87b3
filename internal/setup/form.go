package setup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hbjs97/vew/internal/config"
	"golang.org/x/term"
)

// ErrNotTerminal은 stdin이 터미널이 아닐 때 폼을 요청하면 반환된다.
var ErrNotTerminal = errors.New("interactive setup needs a terminal")

// Answers는 대화형 설정에서 입력받은 값이다.
type Answers struct {
	WorkonHome string
	Builder    string
	// BuilderArgs는 공백으로 구분한다.
	BuilderArgs string
	Activation  string
}

// AnswersFrom은 Config 값을 폼 기본값으로 변환한다.
func AnswersFrom(cfg *config.Config) Answers {
	return Answers{
		WorkonHome:  cfg.WorkonHome,
		Builder:     cfg.Builder,
		BuilderArgs: strings.Join(cfg.BuilderArgs, " "),
		Activation:  cfg.Activation,
	}
}

// Apply는 입력 값을 Config에 반영한다.
func (a Answers) Apply(cfg *config.Config) {
	cfg.WorkonHome = strings.TrimSpace(a.WorkonHome)
	cfg.Builder = strings.TrimSpace(a.Builder)
	cfg.BuilderArgs = strings.Fields(a.BuilderArgs)
	cfg.Activation = a.Activation
}

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 fake를 사용한다.
type FormRunner interface {
	// RunConfigForm은 defaults를 기본값으로 설정 값을 입력받는다.
	RunConfigForm(defaults Answers) (Answers, error)
	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)
}

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// RunConfigForm은 설정 입력 폼을 실행한다.
func (h *HuhFormRunner) RunConfigForm(defaults Answers) (Answers, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return Answers{}, fmt.Errorf("setup.RunConfigForm: %w", ErrNotTerminal)
	}
	in := defaults
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Environment root").
			Description("WORKON_HOME overrides this at run time").
			Value(&in.WorkonHome).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Builder command").
			Description("Runs inside the root as: <builder> <args...> <name>").
			Value(&in.Builder).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Builder arguments").
			Description("Passed before every environment name, e.g. --python=python3").
			Value(&in.BuilderArgs),
		huh.NewSelect[string]().
			Title("Activation").
			Options(
				huh.NewOption("builtin (set VIRTUAL_ENV and PATH)", "builtin"),
				huh.NewOption("script (source bin/activate)", "script"),
			).
			Value(&in.Activation),
	))
	if err := form.Run(); err != nil {
		return Answers{}, fmt.Errorf("setup.RunConfigForm: %w", err)
	}
	return in, nil
}

// RunConfirm은 확인 프롬프트를 표시한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("setup.RunConfirm: %w", ErrNotTerminal)
	}
	var confirm bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirm, nil
}
