package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/vew/internal/hook"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// EnvInfo는 show와 lsvirtualenv --long이 출력하는 환경 정보다.
type EnvInfo struct {
	Name   string   `json:"name" yaml:"name"`
	Path   string   `json:"path" yaml:"path"`
	Active bool     `json:"active" yaml:"active"`
	Python string   `json:"python,omitempty" yaml:"python,omitempty"`
	Hooks  []string `json:"hooks" yaml:"hooks"`
}

var localHookEvents = []hook.Event{hook.PreActivate, hook.PostActivate, hook.PreDeactivate, hook.PostDeactivate}

func (e *env) info(name string) EnvInfo {
	dir := e.registry.Path(name)
	active, ok := e.registry.Active(e.sess)
	info := EnvInfo{
		Name:   name,
		Path:   dir,
		Active: ok && active == name,
		Hooks:  []string{},
	}
	if py := filepath.Join(dir, "bin", "python"); fileExists(py) {
		info.Python = py
	}
	for _, ev := range localHookEvents {
		if fileExists(hook.LocalPath(dir, ev)) {
			info.Hooks = append(info.Hooks, string(ev))
		}
	}
	return info
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (a *App) newLsvirtualenvCmd() *cobra.Command {
	var long bool
	var format string

	cmd := &cobra.Command{
		Use:   "lsvirtualenv",
		Short: "List environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd)
			if err != nil {
				return err
			}
			names, err := e.registry.List()
			if err != nil {
				return err
			}
			if !long && format == "text" {
				for _, n := range names {
					fmt.Fprintln(a.out(cmd), n)
				}
				return nil
			}
			infos := make([]EnvInfo, 0, len(names))
			for _, n := range names {
				infos = append(infos, e.info(n))
			}
			return render(a.out(cmd), format, infos, func(w io.Writer) {
				for _, i := range infos {
					writeInfo(w, i)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show details for each environment")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func (a *App) newShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show details of an environment (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd)
			if err != nil {
				return err
			}
			if err := e.registry.VerifyRoot(); err != nil {
				return err
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				if err := e.registry.VerifyActive(e.sess); err != nil {
					return err
				}
				active, ok := e.registry.Active(e.sess)
				if !ok {
					return fmt.Errorf("cli.show: active environment %s is outside %s: %w",
						e.sess.Get("VIRTUAL_ENV"), e.registry.Root, ErrNoActiveEnvironment)
				}
				name = active
			}
			if err := e.registry.VerifyEnvironment(name); err != nil {
				return err
			}
			info := e.info(name)
			return render(a.out(cmd), format, info, func(w io.Writer) { writeInfo(w, info) })
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func writeInfo(w io.Writer, i EnvInfo) {
	marker := " "
	if i.Active {
		marker = "*"
	}
	fmt.Fprintf(w, "%s %s\n", marker, i.Name)
	fmt.Fprintf(w, "    path:   %s\n", i.Path)
	if i.Python != "" {
		fmt.Fprintf(w, "    python: %s\n", i.Python)
	}
	if len(i.Hooks) > 0 {
		fmt.Fprintf(w, "    hooks:  %s\n", strings.Join(i.Hooks, ", "))
	}
}

func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "text":
		text(w)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("cli.render: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("cli.render: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("cli.render: unknown output format %q", format)
	}
}
