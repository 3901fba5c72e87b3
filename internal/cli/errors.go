package cli

import (
	"github.com/hbjs97/vew/internal/activation"
	"github.com/hbjs97/vew/internal/config"
	"github.com/hbjs97/vew/internal/lifecycle"
	"github.com/hbjs97/vew/internal/registry"
)

// 도메인 패키지의 sentinel error를 CLI 계층에 다시 노출한다.
var (
	// ErrRootMissing은 루트 디렉토리가 없음을 나타낸다.
	ErrRootMissing = registry.ErrRootMissing
	// ErrEnvironmentMissing은 지정한 환경이 없음을 나타낸다.
	ErrEnvironmentMissing = registry.ErrEnvironmentMissing
	// ErrInvalidName은 환경 이름으로 쓸 수 없는 이름이다.
	ErrInvalidName = registry.ErrInvalidName
	// ErrNoActiveEnvironment는 활성 환경이 없음을 나타낸다.
	ErrNoActiveEnvironment = registry.ErrNoActiveEnvironment
	// ErrCannotRemoveActive는 활성 환경 삭제 시도다.
	ErrCannotRemoveActive = lifecycle.ErrCannotRemoveActive
	// ErrMissingName은 환경 이름이 필요한 명령에 이름이 없음을 나타낸다.
	ErrMissingName = lifecycle.ErrMissingName
	// ErrNoTarget은 이름 없이 workon을 호출했음을 알린다. 에러가 아니다.
	ErrNoTarget = activation.ErrNoTarget
	// ErrConfig는 설정 파일 오류다.
	ErrConfig = config.ErrConfig
)
