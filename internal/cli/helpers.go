package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/getcook-dev/cook/internal/graph"
	"github.com/getcook-dev/cook/internal/model"
	"github.com/getcook-dev/cook/internal/parser"
	"github.com/spf13/cobra"
)

// loadCookbook parses the -f file and builds its dependency graph, turning
// YAML syntax errors into friendlier messages.
func loadCookbook() (*model.Cookbook, *graph.Graph, error) {
	cb, err := parser.LoadCookbook(cookbookPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("cannot open cookbook %q — pass -f <path> or create cookbook.ckb in the current directory", cookbookPath)
		}
		if isYAMLError(err) {
			return nil, nil, fmt.Errorf("invalid YAML in cookbook %q: %v", cookbookPath, unwrapYAMLError(err))
		}
		return nil, nil, err
	}

	g, err := graph.Build(cb)
	if err != nil {
		return nil, nil, fmt.Errorf("cookbook %q: %w", cookbookPath, err)
	}
	return cb, g, nil
}

// friendlyError converts common OS errors into user-friendly messages.
func friendlyError(err error) string {
	if errors.Is(err, os.ErrPermission) {
		return "permission denied — check directory permissions for ~/.cook"
	}
	return err.Error()
}

// isYAMLError returns true if the error originated from YAML parsing.
func isYAMLError(err error) bool {
	return strings.Contains(err.Error(), "parsing cookbook")
}

// unwrapYAMLError extracts the YAML-specific error detail from a wrapped
// "parsing cookbook" error, stripping the redundant prefix.
func unwrapYAMLError(err error) error {
	msg := err.Error()
	if i := strings.Index(msg, "parsing cookbook"); i >= 0 {
		rest := msg[i:]
		if j := strings.Index(rest, ": "); j >= 0 {
			return errors.New(rest[j+2:])
		}
	}
	return err
}

// short safely truncates s to at most n characters for display.
func short(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
}

func noArgs(cmd string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown arguments — usage: %s", cmd)
		}
		return nil
	}
}

func maxArgs(max int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > max {
			return fmt.Errorf("too many arguments — usage: %s", usage)
		}
		return nil
	}
}
