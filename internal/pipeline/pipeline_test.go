package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getcook-dev/cook/internal/model"
)

func step(argv ...string) model.Step {
	return model.Step{Argv: argv}
}

func sh(script string) model.Step {
	return step("sh", "-c", script)
}

func TestRun_EmptyTask(t *testing.T) {
	if got := Run(model.Task{}); got != 0 {
		t.Fatalf("expected 0 for empty task, got %d", got)
	}
}

func TestRun_SingleStepOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	task := model.Task{
		Steps:  []model.Step{step("echo", "hello")},
		Output: out,
	}
	if got := Run(task); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", string(data))
	}
}

func TestRun_PipelineWithRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "menu.txt")
	out := filepath.Join(dir, "count.txt")
	if err := os.WriteFile(in, []byte("soup\nsalad\npasta\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	task := model.Task{
		Steps:  []model.Step{step("cat"), step("wc", "-l")},
		Input:  in,
		Output: out,
	}
	if got := Run(task); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "3" {
		t.Fatalf("expected wc output 3, got %q", string(data))
	}
}

func TestRun_OutputFileTruncated(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(out, []byte("previous contents that are longer\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	task := model.Task{
		Steps:  []model.Step{step("echo", "hi")},
		Output: out,
	}
	if got := Run(task); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "hi\n" {
		t.Fatalf("expected truncated file, got %q", string(data))
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	task := model.Task{Steps: []model.Step{step("false")}}
	if got := Run(task); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestRun_PreservesExitCode(t *testing.T) {
	task := model.Task{Steps: []model.Step{sh("exit 7")}}
	if got := Run(task); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestRun_RightmostFailingStageWins(t *testing.T) {
	task := model.Task{Steps: []model.Step{sh("exit 3"), sh("exit 5")}}
	if got := Run(task); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestRun_SignalledStage(t *testing.T) {
	task := model.Task{Steps: []model.Step{sh("kill -TERM $$")}}
	if got := Run(task); got != -1 {
		t.Fatalf("expected -1 for signalled stage, got %d", got)
	}
}

func TestRun_MissingInputFile(t *testing.T) {
	task := model.Task{
		Steps: []model.Step{step("cat")},
		Input: filepath.Join(t.TempDir(), "missing.txt"),
	}
	if got := Run(task); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	task := model.Task{Steps: []model.Step{step("definitely-not-a-command-xyz")}}
	if got := Run(task); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestRun_UnknownCommandMidPipeline(t *testing.T) {
	task := model.Task{Steps: []model.Step{step("echo", "hi"), step("definitely-not-a-command-xyz")}}
	if got := Run(task); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestRun_FailingStageDoesNotStopOthers(t *testing.T) {
	// A middle-stage failure still waits the whole pipeline and reports the
	// rightmost non-zero status.
	task := model.Task{Steps: []model.Step{step("echo", "hi"), sh("exit 4"), step("cat")}}
	if got := Run(task); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestResolve_UtilWinsOverPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir("util", 0o755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho util-greet\n"
	if err := os.WriteFile(filepath.Join("util", "echo"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	// "echo" exists on PATH everywhere; the util copy must win.
	if got := Resolve("echo"); got != filepath.Join("util", "echo") {
		t.Fatalf("expected util/echo, got %q", got)
	}

	out := filepath.Join(dir, "out.txt")
	task := model.Task{
		Steps:  []model.Step{step("echo", "ignored-arg")},
		Output: out,
	}
	if got := Run(task); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	data, _ := os.ReadFile(out)
	if strings.TrimSpace(string(data)) != "util-greet" {
		t.Fatalf("expected util-greet, got %q", string(data))
	}
}

func TestResolve_NonExecutableUtilIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir("util", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("util", "cat"), []byte("not a program"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Resolve("cat"); got != "cat" {
		t.Fatalf("expected PATH fallback, got %q", got)
	}
}

func TestResolve_NoUtilDir(t *testing.T) {
	t.Chdir(t.TempDir())
	if got := Resolve("echo"); got != "echo" {
		t.Fatalf("expected plain name, got %q", got)
	}
}
