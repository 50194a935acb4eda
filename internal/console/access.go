package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tearaglass/godscruiseline/internal/access"
)

// ErrAccessDenied is returned by ResolveAccess when the admin flag is absent or false.
var ErrAccessDenied = errors.New("access denied: run `console login` with the admin passphrase")

// FlagStore persists the console's admin flag between invocations.
type FlagStore interface {
	AdminFlag() (bool, error)
	SetAdminFlag(admin bool) error
}

// FileFlagStore keeps the flag in a small JSON file. A missing file means false.
type FileFlagStore struct {
	Path string
}

type flagFile struct {
	Admin bool `json:"admin"`
}

// DefaultStatePath returns ~/.config/godscruiseline/console.json, or a path
// in the working directory when no config dir is available.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".godscruiseline-console.json"
	}
	return filepath.Join(dir, "godscruiseline", "console.json")
}

func (s FileFlagStore) AdminFlag() (bool, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read console state: %w", err)
	}
	var f flagFile
	if err := json.Unmarshal(b, &f); err != nil {
		return false, fmt.Errorf("parse console state %s: %w", s.Path, err)
	}
	return f.Admin, nil
}

func (s FileFlagStore) SetAdminFlag(admin bool) error {
	if !admin {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("clear console state: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	b, err := json.Marshal(flagFile{Admin: true})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, b, 0o600); err != nil {
		return fmt.Errorf("write console state: %w", err)
	}
	return nil
}

// ResolveAccess is the console entry guard: admin when the persisted flag is
// set, ErrAccessDenied otherwise. It is evaluated once per invocation.
func ResolveAccess(store FlagStore) (access.Tier, error) {
	ok, err := store.AdminFlag()
	if err != nil {
		return access.TierNone, errors.Join(ErrAccessDenied, err)
	}
	if !ok {
		return access.TierNone, ErrAccessDenied
	}
	return access.TierAdmin, nil
}

// Login resolves passphrase against the API and persists the admin flag
// only for the admin tier. Any other outcome clears it.
func Login(ctx context.Context, client *Client, store FlagStore, passphrase string) (access.Tier, error) {
	tier, err := client.ResolveTier(ctx, passphrase)
	if err != nil {
		return access.TierNone, err
	}
	if err := store.SetAdminFlag(tier == access.TierAdmin); err != nil {
		return tier, err
	}
	return tier, nil
}
