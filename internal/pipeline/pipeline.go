// Package pipeline executes one task as a multi-stage process pipeline with
// optional input and output file redirection.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/getcook-dev/cook/internal/model"
)

// Run executes all steps of a task as a single shell-style pipeline: stage
// i's stdout feeds stage i+1's stdin, the first stage reads the task's input
// file (or inherited stdin) and the last stage writes the task's output file
// (or inherited stdout). Stderr is inherited by every stage.
//
// The returned status is 0 on success, the last non-zero child exit status
// in stage order (the rightmost failing stage wins), or -1 when no exit
// status is available — a stage was signalled, or opening a file, creating a
// pipe, or spawning a stage failed.
func Run(task model.Task) int {
	n := len(task.Steps)
	if n == 0 {
		return 0
	}

	var input, output *os.File
	if task.Input != "" {
		f, err := os.Open(task.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cook: cannot open input file %q: %v\n", task.Input, err)
			return -1
		}
		input = f
	}
	if task.Output != "" {
		f, err := os.OpenFile(task.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cook: cannot open output file %q: %v\n", task.Output, err)
			closeFile(&input)
			return -1
		}
		output = f
	}

	// Pipe i connects stdout of stage i to stdin of stage i+1. The parent
	// closes each end as soon as the stage owning it has started, so EOF
	// propagates; any end still open on a failure path is closed below.
	readEnds := make([]*os.File, n-1)
	writeEnds := make([]*os.File, n-1)
	closeAll := func() {
		closeFile(&input)
		closeFile(&output)
		for i := range readEnds {
			closeFile(&readEnds[i])
			closeFile(&writeEnds[i])
		}
	}

	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cook: cannot create pipe: %v\n", err)
			closeAll()
			return -1
		}
		readEnds[i], writeEnds[i] = r, w
	}

	cmds := make([]*exec.Cmd, n)
	for i, step := range task.Steps {
		cmd := exec.Command(Resolve(step.Command()), step.Argv[1:]...)
		if i == 0 {
			cmd.Stdin = os.Stdin
			if input != nil {
				cmd.Stdin = input
			}
		} else {
			cmd.Stdin = readEnds[i-1]
		}
		if i == n-1 {
			cmd.Stdout = os.Stdout
			if output != nil {
				cmd.Stdout = output
			}
		} else {
			cmd.Stdout = writeEnds[i]
		}
		cmd.Stderr = os.Stderr
		cmds[i] = cmd
	}

	started := 0
	for i, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "cook: failed to execute %q: %v\n", task.Steps[i].Command(), err)
			break
		}
		started = i + 1
		if i < n-1 {
			closeFile(&writeEnds[i])
		}
		if i > 0 {
			closeFile(&readEnds[i-1])
		}
	}

	// Whether all stages started or not, the parent is done with every
	// descriptor it opened.
	closeAll()

	if started < n {
		// Spawn failed mid-pipeline: reap the stages that did start. Their
		// pipe ends are closed, so they see EOF/EPIPE and terminate.
		for _, cmd := range cmds[:started] {
			_ = cmd.Wait()
		}
		return -1
	}

	failed := false
	exitStatus := 0
	for _, cmd := range cmds {
		err := cmd.Wait()
		if err == nil {
			continue
		}
		failed = true
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ProcessState.Exited() {
			exitStatus = ee.ProcessState.ExitCode()
		}
	}

	if failed {
		if exitStatus != 0 {
			return exitStatus
		}
		return -1
	}
	return 0
}

// Resolve implements the two-tier command lookup: util/<name> relative to
// the working directory wins when it is an executable regular file,
// otherwise the name is left for PATH lookup.
func Resolve(name string) string {
	p := filepath.Join("util", name)
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() && info.Mode()&0o111 != 0 {
		return p
	}
	return name
}

func closeFile(f **os.File) {
	if *f != nil {
		_ = (*f).Close()
		*f = nil
	}
}
