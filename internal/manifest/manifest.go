// SPDX-License-Identifier: Apache-2.0

// Package manifest fingerprints the dependency manifest and persists the
// fingerprint of the last successful install. The sidecar file is treated
// as a one-key store with a defined read-modify-write contract: it is only
// ever replaced atomically, and only after an install succeeds.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SidecarName is the hidden fingerprint file kept inside the environment
// directory.
const SidecarName = ".requirements.sha256"

// Fingerprint computes the hex-encoded SHA-256 digest of manifest content.
// The digest is stable across platforms; line endings are hashed as-is.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FingerprintFile computes the fingerprint of the manifest at path.
// A missing manifest returns ok=false with no error: per the launch
// contract that case is a warning, not a failure.
func FingerprintFile(path string) (fp string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Fingerprint(data), true, nil
}

// Store is the persisted fingerprint of the last successful install.
type Store struct {
	path string
}

// NewStore returns the fingerprint store for the given environment
// directory.
func NewStore(envDir string) *Store {
	return &Store{path: filepath.Join(envDir, SidecarName)}
}

// Path returns the sidecar file location.
func (s *Store) Path() string {
	return s.path
}

// Get reads the stored fingerprint. ok is false when no fingerprint has
// been recorded yet.
func (s *Store) Get() (fp string, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read fingerprint file %s: %w", s.path, err)
	}
	fp = strings.TrimSpace(string(data))
	if fp == "" {
		return "", false, nil
	}
	return fp, true, nil
}

// Set atomically replaces the stored fingerprint. The value is staged in a
// temp file in the same directory and renamed into place, so a crash can
// never leave a half-written fingerprint behind.
func (s *Store) Set(fp string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, SidecarName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage fingerprint file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(fp + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write fingerprint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close fingerprint temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace fingerprint file %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the stored fingerprint. Missing is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove fingerprint file %s: %w", s.path, err)
	}
	return nil
}

// SyncState describes how the environment relates to the manifest.
type SyncState int

const (
	// StateNoManifest means the manifest file does not exist; install is
	// skipped with a warning and execution proceeds.
	StateNoManifest SyncState = iota
	// StateUninitialized means no fingerprint has been recorded yet.
	StateUninitialized
	// StateStale means the manifest changed since the last install.
	StateStale
	// StateFresh means the recorded fingerprint matches the manifest.
	StateFresh
)

func (s SyncState) String() string {
	switch s {
	case StateNoManifest:
		return "no-manifest"
	case StateUninitialized:
		return "uninitialized"
	case StateStale:
		return "stale"
	case StateFresh:
		return "fresh"
	}
	return "unknown"
}

// NeedsInstall reports whether the state mandates a dependency install.
func (s SyncState) NeedsInstall() bool {
	return s == StateUninitialized || s == StateStale
}

// Check compares the manifest at manifestPath against the store and
// returns the resulting sync state plus the manifest's current
// fingerprint (empty when the manifest is absent).
func Check(manifestPath string, store *Store) (SyncState, string, error) {
	current, ok, err := FingerprintFile(manifestPath)
	if err != nil {
		return StateNoManifest, "", err
	}
	if !ok {
		return StateNoManifest, "", nil
	}

	stored, ok, err := store.Get()
	if err != nil {
		return StateUninitialized, current, err
	}
	if !ok {
		return StateUninitialized, current, nil
	}
	if stored != current {
		return StateStale, current, nil
	}
	return StateFresh, current, nil
}
