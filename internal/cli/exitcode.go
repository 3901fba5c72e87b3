package cli

import (
	"errors"
)

// ExitCode는 vew의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitRootMissing은 루트 디렉토리 없음이다.
	ExitRootMissing ExitCode = 2
	// ExitEnvironmentMissing은 환경 없음 또는 잘못된 이름이다.
	ExitEnvironmentMissing ExitCode = 3
	// ExitNoActive는 활성 환경이 필요한 작업에 활성 환경이 없음이다.
	ExitNoActive ExitCode = 4
	// ExitCannotRemoveActive는 활성 환경 삭제 거부다.
	ExitCannotRemoveActive ExitCode = 5
	// ExitMissingName은 환경 이름 누락이다.
	ExitMissingName ExitCode = 6
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 7
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil || errors.Is(err, ErrNoTarget) {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrRootMissing):
		return ExitRootMissing
	case errors.Is(err, ErrEnvironmentMissing), errors.Is(err, ErrInvalidName):
		return ExitEnvironmentMissing
	case errors.Is(err, ErrNoActiveEnvironment):
		return ExitNoActive
	case errors.Is(err, ErrCannotRemoveActive):
		return ExitCannotRemoveActive
	case errors.Is(err, ErrMissingName):
		return ExitMissingName
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitGeneral
	}
}
