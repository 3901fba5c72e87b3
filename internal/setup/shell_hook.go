// Package setup은 셸 통합을 rc 파일에 설치하고 대화형 설정 폼을 실행한다.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/vew/internal/shell"
)

// marker는 설치된 통합 라인을 식별한다.
const marker = "# vew shell integration"

// DetectShell은 $SHELL 환경변수에서 셸 이름을 반환한다.
func DetectShell() string {
	sh := os.Getenv("SHELL")
	return filepath.Base(sh)
}

// ShellRCPath는 셸 통합을 설치할 rc 파일 경로를 반환한다.
func ShellRCPath(shellType string) string {
	home, _ := os.UserHomeDir() // 실패 시 빈 문자열
	switch shellType {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	case "fish":
		return filepath.Join(home, ".config", "fish", "conf.d", "vew.fish")
	default:
		return ""
	}
}

// RCLine은 셸 시작 시 통합을 로드하는 rc 파일 라인을 반환한다.
func RCLine(shellType string) string {
	switch shellType {
	case "zsh", "bash":
		return fmt.Sprintf("%s\neval \"$(command vew setup --print --shell %s)\"\n", marker, shellType)
	case "fish":
		return marker + "\ncommand vew setup --print --shell fish | source\n"
	default:
		return ""
	}
}

// InstallShellHook은 rc 파일에 셸 통합을 추가한다. 이미 있으면 무시한다.
func InstallShellHook(shellType, rcPath string) error {
	if !shell.IsSupported(shellType) {
		return fmt.Errorf("setup.InstallShellHook: unsupported shell: %s", shellType)
	}

	existing, _ := os.ReadFile(rcPath) // 파일이 없으면 빈 내용
	if strings.Contains(string(existing), marker) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
		return fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	f, err := os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n%s", RCLine(shellType)); err != nil {
		return fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	return nil
}
