// Package shell renders session changes as shell code and provides the
// integration snippet that evals it. bash and zsh share POSIX syntax; fish
// gets its own.
package shell
