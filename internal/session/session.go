// Package session models the interactive shell context vew operates on.
//
// A Session is a snapshot of the caller's exported environment. Operations
// mutate it in place; the CLI renders the difference from the starting
// snapshot as shell statements for the caller to eval. The installed
// deactivate handler is stored in the environment itself so it survives
// between invocations.
//
// A Session has a single owner. It is not safe for concurrent use.
package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// HandlerVar is the environment variable holding the serialized deactivate handler.
const HandlerVar = "VEW_DEACTIVATE"

// Session is the mutable environment of one interactive shell.
type Session struct {
	env map[string]string
}

// Change is a single difference between two sessions.
type Change struct {
	Key   string
	Value string
	Unset bool
}

// Handler is the serialized form of an installed deactivate handler.
// Local hook paths are fixed when the handler is built.
type Handler struct {
	Env                 string             `json:"env"`
	EnvDir              string             `json:"env_dir"`
	LocalPreDeactivate  string             `json:"local_predeactivate"`
	LocalPostDeactivate string             `json:"local_postdeactivate"`
	Restore             map[string]*string `json:"restore"`
}

// New returns an empty session.
func New() *Session {
	return &Session{env: make(map[string]string)}
}

// FromEnviron builds a session from "KEY=VALUE" pairs, as returned by os.Environ.
// Entries without '=' are ignored; later duplicates win.
func FromEnviron(environ []string) *Session {
	s := New()
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		s.env[k] = v
	}
	return s
}

// Clone returns an independent copy of the session.
func (s *Session) Clone() *Session {
	return &Session{env: maps.Clone(s.env)}
}

// Get returns the value of key, or "" when unset.
func (s *Session) Get(key string) string {
	return s.env[key]
}

// Lookup returns the value of key and whether it is set.
func (s *Session) Lookup(key string) (string, bool) {
	v, ok := s.env[key]
	return v, ok
}

// Set assigns key.
func (s *Session) Set(key, value string) {
	s.env[key] = value
}

// Unset removes key.
func (s *Session) Unset(key string) {
	delete(s.env, key)
}

// Replace swaps the whole environment for the given one.
func (s *Session) Replace(env map[string]string) {
	s.env = maps.Clone(env)
}

// Vars returns a copy of the environment as a map.
func (s *Session) Vars() map[string]string {
	return maps.Clone(s.env)
}

// Environ returns the environment as sorted "KEY=VALUE" pairs.
func (s *Session) Environ() []string {
	keys := make([]string, 0, len(s.env))
	for k := range s.env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+s.env[k])
	}
	return out
}

// Handler decodes the installed deactivate handler. It returns nil when none
// is installed or the stored value cannot be decoded.
func (s *Session) Handler() *Handler {
	raw, ok := s.env[HandlerVar]
	if !ok || raw == "" {
		return nil
	}
	var h Handler
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil
	}
	return &h
}

// SetHandler installs h, replacing any previous handler. A nil h clears the slot.
func (s *Session) SetHandler(h *Handler) error {
	if h == nil {
		delete(s.env, HandlerVar)
		return nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("session.SetHandler: %w", err)
	}
	s.env[HandlerVar] = string(data)
	return nil
}

// IsName reports whether key is a POSIX shell variable name. Other keys,
// such as bash's exported functions (BASH_FUNC_f%%), can live in the
// environment but cannot be set or unset by shell code.
func IsName(key string) bool {
	if key == "" {
		return false
	}
	for i, c := range key {
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Diff lists the changes that turn base into s, sorted by key.
func (s *Session) Diff(base *Session) []Change {
	var changes []Change
	for k, v := range s.env {
		if old, ok := base.env[k]; !ok || old != v {
			changes = append(changes, Change{Key: k, Value: v})
		}
	}
	for k := range base.env {
		if _, ok := s.env[k]; !ok {
			changes = append(changes, Change{Key: k, Unset: true})
		}
	}
	slices.SortFunc(changes, func(a, b Change) int { return strings.Compare(a.Key, b.Key) })
	return changes
}
