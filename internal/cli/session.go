package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"grundy/internal/bible"
	"grundy/internal/clock"
	"grundy/internal/config"
	"grundy/internal/economy"
	"grundy/internal/game"
	"grundy/internal/savefile"
)

// starterSpecies is the pet every new save starts with.
const starterSpecies = "munchlet"

// session is one open save with the login and offline catch-up applied.
type session struct {
	cfg     config.Config
	store   *game.Store
	backend savefile.Backend
	rng     clock.RNG
	created bool
	streak  economy.StreakResult
	welcome game.OfflineResult
	logFile *os.File
}

// loadConfig reads the environment and applies the flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts.Backend != "" {
		cfg.SaveBackend = config.Backend(opts.Backend)
	}
	if opts.SavePath != "" {
		cfg.SavePath = opts.SavePath
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupLogging sends slog output to the log file. The terminal belongs to
// the game.
func setupLogging(cfg config.Config) (*os.File, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))
	return f, nil
}

func loadCatalog(cfg config.Config) (*bible.Catalog, error) {
	o, err := bible.LoadOverrides(cfg.Overrides)
	if err != nil {
		return nil, err
	}
	return bible.Default().ApplyOverrides(o)
}

// openSession loads (or starts) the save and brings it up to date.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logFile, err := setupLogging(cfg)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logFile: logFile}

	cat, err := loadCatalog(cfg)
	if err != nil {
		s.close()
		return nil, err
	}
	s.backend, err = savefile.Open(cfg)
	if err != nil {
		s.close()
		return nil, err
	}

	state, ok, err := savefile.LoadState(ctx, s.backend)
	if err != nil {
		s.close()
		return nil, err
	}
	sys := clock.System()
	if !ok {
		state = game.NewState(game.NewID(), starterSpecies, "", cfg.PlayMode, sys.NowMs())
		s.created = true
	}

	s.rng = clock.CryptoRNG()
	if cfg.Seed != 0 {
		s.rng = clock.NewSeeded(cfg.Seed)
	}
	s.store = game.NewStore(state,
		game.WithClock(sys),
		game.WithRNG(s.rng),
		game.WithCatalog(cat),
		game.WithSubscriber(cfg.Subscriber),
		game.WithLogger(slog.Default()),
		game.WithSaver(savefile.Saver(ctx, s.backend)),
	)

	// There is no tutorial in the terminal; a new save starts its grace
	// period straight away.
	if s.created {
		ftue := s.store.CompleteFtue()
		slog.Info("new save", "path", cfg.SavePath, "backend", cfg.SaveBackend, "mode", cfg.PlayMode, "graceEndsAt", ftue.GraceEndsAt)
	}
	s.streak = s.store.ProcessLoginStreak()
	s.welcome = s.store.ApplyOfflineFanout()
	return s, nil
}

func (s *session) close() error {
	var errs []error
	if s.backend != nil {
		errs = append(errs, s.backend.Close())
	}
	if s.logFile != nil {
		errs = append(errs, s.logFile.Close())
	}
	return errors.Join(errs...)
}

// withSession runs fn against an open session and closes it afterwards.
func withSession(ctx context.Context, opts *RootOptions, fn func(*session) error) (err error) {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// petOrActive resolves an explicit pet id, falling back to the active pet.
func (s *session) petOrActive(petID string) (string, error) {
	if petID != "" {
		return petID, nil
	}
	p, ok := s.store.ActivePet()
	if !ok {
		return "", game.Err("select pet", bible.Fail(bible.CodePetUnavailable, "all your pets are away"))
	}
	return p.InstanceID, nil
}
