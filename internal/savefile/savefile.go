// Package savefile stores encoded game snapshots. Backends only move bytes;
// encoding and migration belong to the game package.
package savefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"grundy/internal/config"
	"grundy/internal/game"
)

// ErrNoSave is returned by Load when nothing has been saved yet.
var ErrNoSave = errors.New("no save found")

// Backend persists one encoded save.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Open returns the backend named by cfg.
func Open(cfg config.Config) (Backend, error) {
	switch cfg.SaveBackend {
	case config.BackendJSON, "":
		return NewJSONFile(cfg.SavePath), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.SavePath, DefaultSlot)
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
}

// LoadState reads and decodes the save in b. ok is false when there is none.
func LoadState(ctx context.Context, b Backend) (state game.State, ok bool, err error) {
	data, err := b.Load(ctx)
	if errors.Is(err, ErrNoSave) {
		return game.State{}, false, nil
	}
	if err != nil {
		return game.State{}, false, err
	}
	state, err = game.Unmarshal(data)
	if err != nil {
		return game.State{}, false, err
	}
	return state, true, nil
}

// Saver adapts b to the game.Store saver hook.
func Saver(ctx context.Context, b Backend) func(game.State) error {
	return func(s game.State) error {
		data, err := game.Marshal(s)
		if err != nil {
			return err
		}
		return b.Save(ctx, data)
	}
}

// JSONFile keeps the save as a single indented JSON file.
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend writing to path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path is the file the backend writes.
func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	return data, nil
}

// Save writes data to a temp file next to the save and renames it into
// place, so a crash never leaves a half-written save.
func (f *JSONFile) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	slog.Debug("save written", "path", f.path, "bytes", len(data))
	return nil
}

func (f *JSONFile) Close() error { return nil }

// versionOf peeks at the save format version, 0 when unreadable.
func versionOf(data []byte) int {
	var head struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0
	}
	return head.Version
}
