package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	if got := short("abcdefgh", 4); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
	if got := short("ab", 4); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}

func TestUnwrapYAMLError(t *testing.T) {
	inner := errors.New("yaml: line 3: did not find expected key")
	wrapped := fmt.Errorf("parsing cookbook %q: %w", "cookbook.ckb", inner)

	got := unwrapYAMLError(wrapped)
	if got.Error() != inner.Error() {
		t.Fatalf("expected %q, got %q", inner.Error(), got.Error())
	}
}

func TestUnwrapYAMLError_Unrelated(t *testing.T) {
	err := errors.New("something else")
	if got := unwrapYAMLError(err); got.Error() != err.Error() {
		t.Fatalf("expected passthrough, got %q", got.Error())
	}
}

func TestIsYAMLError(t *testing.T) {
	if !isYAMLError(errors.New(`parsing cookbook "x": yaml: bad`)) {
		t.Fatal("expected true for parsing error")
	}
	if isYAMLError(errors.New("reading cookbook: no such file")) {
		t.Fatal("expected false for read error")
	}
}

func TestMaxArgs(t *testing.T) {
	fn := maxArgs(1, "cook [main_recipe]")
	if err := fn(nil, []string{"one"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := fn(nil, []string{"one", "two"})
	if err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("expected usage error, got %v", err)
	}
}
