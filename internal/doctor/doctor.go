// Package doctor는 vew 설치 상태를 진단한다.
package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/vew/internal/cmdexec"
	"github.com/hbjs97/vew/internal/hook"
	"github.com/hbjs97/vew/internal/registry"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다. vew는 동작하지만 확인이 필요하다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string `json:"name" yaml:"name"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
	Fix     string `json:"fix,omitempty" yaml:"fix,omitempty"`
}

// CheckRoot는 환경 루트 디렉토리 존재 여부를 확인한다.
func CheckRoot(reg *registry.Registry) DiagResult {
	if err := reg.VerifyRoot(); err != nil {
		return DiagResult{
			Name:    "root",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s does not exist", reg.Root),
			Fix:     fmt.Sprintf("mkdir -p %s", reg.Root),
		}
	}
	names, err := reg.List()
	if err != nil {
		return DiagResult{Name: "root", Status: StatusFail, Message: err.Error()}
	}
	return DiagResult{
		Name:    "root",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s (%d environments)", reg.Root, len(names)),
	}
}

// CheckBuilder는 builder 명령이 실행되는지 확인한다.
func CheckBuilder(ctx context.Context, cmd cmdexec.Commander, builder string) DiagResult {
	out, err := cmd.Run(ctx, builder, "--version")
	if err != nil {
		return DiagResult{
			Name:    "builder",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s --version failed: %v", builder, err),
			Fix:     fmt.Sprintf("install %s or set builder in the config file", builder),
		}
	}
	return DiagResult{
		Name:    "builder",
		Status:  StatusOK,
		Message: firstLine(string(out)),
	}
}

// CheckHooks는 실행 권한이 없는 전역 훅을 보고한다.
// source되는 훅은 읽기 권한만 있으면 되므로 확인하지 않는다.
func CheckHooks(reg *registry.Registry) DiagResult {
	var bad []string
	for _, e := range []hook.Event{hook.PreCreate, hook.PreRemove, hook.PostRemove} {
		info, err := os.Stat(hook.GlobalPath(reg.Root, e))
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			bad = append(bad, string(e))
		}
	}
	if len(bad) > 0 {
		return DiagResult{
			Name:    "hooks",
			Status:  StatusWarn,
			Message: fmt.Sprintf("not executable: %s", strings.Join(bad, ", ")),
			Fix:     fmt.Sprintf("chmod +x %s/<hook>", reg.Root),
		}
	}
	return DiagResult{Name: "hooks", Status: StatusOK, Message: "global hooks executable"}
}

// CheckShell은 셸 통합 없이 실행 중이면 경고한다.
func CheckShell(shellType string) DiagResult {
	if shellType == "" {
		return DiagResult{
			Name:    "shell",
			Status:  StatusWarn,
			Message: "shell integration not detected",
			Fix:     "vew setup",
		}
	}
	return DiagResult{Name: "shell", Status: StatusOK, Message: shellType}
}

// RunAll은 모든 진단을 실행한다. 훅은 루트가 있을 때만 확인한다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, reg *registry.Registry, builder, shellType string) []DiagResult {
	results := []DiagResult{CheckRoot(reg)}
	if results[0].Status == StatusOK {
		results = append(results, CheckHooks(reg))
	}
	results = append(results, CheckBuilder(ctx, cmd, builder))
	results = append(results, CheckShell(shellType))
	return results
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
