package shell

import (
	"fmt"
	"strings"

	"github.com/hbjs97/vew/internal/session"
)

// IntegrationVar는 Snippet이 export하는 변수로, 셸 통합 로드 여부를 나타낸다.
const IntegrationVar = "VEW_SHELL"

// Supported는 vew가 코드를 생성할 수 있는 셸 목록이다.
var Supported = []string{"bash", "zsh", "fish"}

// IsSupported는 shellType이 지원되는 셸인지 반환한다.
func IsSupported(shellType string) bool {
	for _, s := range Supported {
		if s == shellType {
			return true
		}
	}
	return false
}

// Script는 세션 변경 사항을 셸이 eval할 구문으로 변환한다.
// 셸 변수 이름이 아닌 키는 건너뛴다.
// handler 슬롯이 바뀌면 deactivate 함수도 정의하거나 제거한다.
func Script(changes []session.Change, shellType string) string {
	var b strings.Builder
	var define, remove, pathChanged bool
	for _, c := range changes {
		if !session.IsName(c.Key) {
			continue
		}
		switch shellType {
		case "fish":
			if c.Unset {
				fmt.Fprintf(&b, "set -e %s\n", c.Key)
			} else {
				fmt.Fprintf(&b, "set -gx %s %s\n", c.Key, fishQuote(c.Value))
			}
		default: // bash, zsh, sh
			if c.Unset {
				fmt.Fprintf(&b, "unset %s\n", c.Key)
			} else {
				fmt.Fprintf(&b, "export %s=%s\n", c.Key, posixQuote(c.Value))
			}
		}
		switch c.Key {
		case session.HandlerVar:
			define, remove = !c.Unset, c.Unset
		case "PATH":
			pathChanged = true
		}
	}
	if define {
		b.WriteString(deactivateFunc(shellType))
	}
	if remove {
		b.WriteString(removeDeactivateFunc(shellType))
	}
	if pathChanged && shellType != "fish" {
		b.WriteString("hash -r 2>/dev/null\n")
	}
	return b.String()
}

func deactivateFunc(shellType string) string {
	if shellType == "fish" {
		return `function deactivate
    set -l _vew_out (command vew --shell fish deactivate | string collect); or return $status
    eval $_vew_out
end
`
	}
	return fmt.Sprintf(`deactivate() { _vew_out="$(command vew --shell %s deactivate)" || return $?; eval "$_vew_out"; unset _vew_out; }
`, shellType)
}

func removeDeactivateFunc(shellType string) string {
	if shellType == "fish" {
		return "functions -e deactivate\n"
	}
	return "unset -f deactivate 2>/dev/null\n"
}

// Snippet은 vew 명령을 감싸는 셸 통합 코드를 반환한다.
func Snippet(shellType string) string {
	switch shellType {
	case "zsh", "bash":
		return fmt.Sprintf(`# vew shell integration (%[1]s)
export VEW_SHELL=%[1]s
workon() { _vew_out="$(command vew --shell %[1]s workon "$@")" || return $?; eval "$_vew_out"; unset _vew_out; }
mkvirtualenv() { _vew_out="$(command vew --shell %[1]s mkvirtualenv "$@")" || return $?; eval "$_vew_out"; unset _vew_out; }
rmvirtualenv() { command vew rmvirtualenv "$@"; }
lsvirtualenv() { command vew lsvirtualenv "$@"; }
if [ -n "$VEW_DEACTIVATE" ]; then
  %[2]s
fi
`, shellType, strings.TrimSpace(deactivateFunc(shellType)))
	case "fish":
		return `# vew shell integration (fish)
set -gx VEW_SHELL fish
function workon
    set -l _vew_out (command vew --shell fish workon $argv | string collect); or return $status
    eval $_vew_out
end
function mkvirtualenv
    set -l _vew_out (command vew --shell fish mkvirtualenv $argv | string collect); or return $status
    eval $_vew_out
end
function rmvirtualenv
    command vew rmvirtualenv $argv
end
function lsvirtualenv
    command vew lsvirtualenv $argv
end
if set -q VEW_DEACTIVATE
` + deactivateFunc("fish") + `end
`
	default:
		return ""
	}
}

func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fishQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
