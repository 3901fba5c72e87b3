package setup

import (
	"testing"

	"github.com/hbjs97/vew/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestAnswers_RoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.BuilderArgs = []string{"--python=python3", "--prompt=x"}

	a := AnswersFrom(cfg)
	assert.Equal(t, "--python=python3 --prompt=x", a.BuilderArgs)
	assert.Equal(t, "builtin", a.Activation)

	a.WorkonHome = "  ~/envs "
	a.BuilderArgs = "  --clear   --python=python3.12 "
	a.Activation = "script"
	a.Apply(cfg)

	assert.Equal(t, "~/envs", cfg.WorkonHome)
	assert.Equal(t, []string{"--clear", "--python=python3.12"}, cfg.BuilderArgs)
	assert.Equal(t, "script", cfg.Activation)
	assert.Equal(t, "virtualenv", cfg.Builder)
}

func TestAnswers_EmptyBuilderArgs(t *testing.T) {
	cfg := config.Default()
	Answers{WorkonHome: "~/e", Builder: "uv", Activation: "builtin"}.Apply(cfg)
	assert.Empty(t, cfg.BuilderArgs)
	assert.Equal(t, "uv", cfg.Builder)
}
