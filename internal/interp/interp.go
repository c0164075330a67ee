// SPDX-License-Identifier: Apache-2.0

// Package interp locates a usable system Python interpreter by probing an
// ordered list of candidate command names on PATH.
package interp

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// lookPath is swappable for tests.
var lookPath = exec.LookPath

// Interpreter describes a located system interpreter.
type Interpreter struct {
	// Name is the candidate command name that matched (e.g. "python3").
	Name string
	// Path is the resolved absolute executable path.
	Path string
}

// ErrNotFound is returned by Find when no candidate resolves on PATH.
type ErrNotFound struct {
	Candidates []string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no Python interpreter found on PATH (tried: %s); install Python 3 and try again",
		strings.Join(e.Candidates, ", "))
}

// Find probes the candidates in order and returns the first one present
// on PATH. It performs no filesystem mutation of any kind.
func Find(candidates []string) (Interpreter, error) {
	for _, name := range candidates {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		return Interpreter{Name: name, Path: path}, nil
	}
	return Interpreter{}, &ErrNotFound{Candidates: candidates}
}

// Version runs `<interpreter> --version` and returns the trimmed output,
// e.g. "Python 3.12.4". Used by status and doctor probes only; the
// bootstrap path never requires it.
func (i Interpreter) Version() (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(i.Path, "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out // Python 2 printed the version on stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to query %s version: %w", i.Path, err)
	}
	return strings.TrimSpace(out.String()), nil
}
