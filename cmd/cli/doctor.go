// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"umd-launcher/internal/config"
	"umd-launcher/internal/interp"
	"umd-launcher/internal/manifest"
	"umd-launcher/internal/project"
	"umd-launcher/internal/pyenv"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentProbes bounds the number of doctor checks running at once
// so a slow interpreter start does not fan out into a process storm.
const maxConcurrentProbes = 4

type probe struct {
	Name string
	// Critical probes fail the doctor run; others are informational.
	Critical bool
	Run      func() (detail string, err error)
}

type probeResult struct {
	detail string
	err    error
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check interpreter, environment, manifest and dispatch targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := project.FindRoot()
		if err != nil {
			return err
		}
		statusColor.Printf("Checking launcher health in %s...\n", root)

		probes := buildProbes(root)
		results := make([]probeResult, len(probes))

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Color("cyan")
		s.Suffix = " Running checks..."
		s.Start()

		sem := semaphore.NewWeighted(maxConcurrentProbes)
		var wg sync.WaitGroup
		for i, p := range probes {
			wg.Add(1)
			go func(i int, p probe) {
				defer wg.Done()
				if err := sem.Acquire(context.Background(), 1); err != nil {
					results[i] = probeResult{err: err}
					return
				}
				defer sem.Release(1)
				detail, err := p.Run()
				results[i] = probeResult{detail: detail, err: err}
			}(i, p)
		}
		wg.Wait()
		s.Stop()

		failedCritical := 0
		for i, p := range probes {
			r := results[i]
			if r.err != nil {
				marker := stepColor.Sprint("!")
				if p.Critical {
					marker = failColor.Sprint("✗")
					failedCritical++
				}
				fmt.Printf("%s %-24s %v\n", marker, p.Name, r.err)
				continue
			}
			fmt.Printf("%s %-24s %s\n", okColor.Sprint("✓"), p.Name, r.detail)
		}

		if failedCritical > 0 {
			return fmt.Errorf("%d critical check(s) failed", failedCritical)
		}
		successColor.Println("\nAll critical checks passed.")
		return nil
	},
}

func buildProbes(root string) []probe {
	probes := []probe{
		{
			Name:     "config file",
			Critical: true,
			Run: func() (string, error) {
				cfg, err := config.Load(root)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("env_dir=%s manifest=%s default=%s", cfg.EnvDir, cfg.Manifest, cfg.DefaultMode), nil
			},
		},
		{
			Name:     "system interpreter",
			Critical: true,
			Run: func() (string, error) {
				cfg, _ := config.Load(root)
				python, err := interp.Find(cfg.Interpreters)
				if err != nil {
					return "", err
				}
				version, err := python.Version()
				if err != nil {
					return python.Path, nil // found but not probeable; still usable
				}
				return fmt.Sprintf("%s (%s)", python.Path, version), nil
			},
		},
		{
			Name:     "venv module",
			Critical: true,
			Run: func() (string, error) {
				cfg, _ := config.Load(root)
				python, err := interp.Find(cfg.Interpreters)
				if err != nil {
					return "", fmt.Errorf("skipped: no interpreter")
				}
				if out, err := exec.Command(python.Path, "-c", "import venv").CombinedOutput(); err != nil {
					return "", fmt.Errorf("venv module unavailable: %s", string(out))
				}
				return "importable", nil
			},
		},
		{
			Name: "environment",
			Run: func() (string, error) {
				cfg, _ := config.Load(root)
				env := pyenv.New(root, cfg.EnvDir)
				if !env.Exists() {
					return "", fmt.Errorf("absent (created on first launch)")
				}
				if v, err := env.Version(); err == nil {
					return fmt.Sprintf("%s (%s)", env.Dir, v), nil
				}
				return "", fmt.Errorf("present but interpreter broken; try `umdl env rebuild`")
			},
		},
		{
			Name: "manifest",
			Run: func() (string, error) {
				cfg, _ := config.Load(root)
				env := pyenv.New(root, cfg.EnvDir)
				state, _, err := manifest.Check(filepath.Join(root, cfg.Manifest), manifest.NewStore(env.Dir))
				if err != nil {
					return "", err
				}
				if state == manifest.StateNoManifest {
					return "", fmt.Errorf("missing (installs will be skipped)")
				}
				return state.String(), nil
			},
		},
	}

	cfg, err := config.Load(root)
	if err != nil {
		// The config probe above reports the problem; fall back to
		// defaults so the target probes still run.
		cfg = config.Default()
	}
	for _, t := range project.Targets(root, cfg) {
		t := t
		probes = append(probes, probe{
			Name:     t.Name() + " target",
			Critical: t.Mode == cfg.DefaultMode,
			Run: func() (string, error) {
				if !t.Exists() {
					return "", fmt.Errorf("%s missing", t.Script)
				}
				return t.Script, nil
			},
		})
	}
	return probes
}
