// Command circuitsizer sizes the branch circuits of a dwelling from its room
// list: lighting and outlet loads, conductor sections and breakers.
//
// Usage:
//
//	circuitsizer [-config file] [-session id] <command> [flags]
//
// Commands:
//
//	room add|list|clear|undo|redo|import   edit the session's room list
//	calc                                   dimension the rooms and print the schedule
//	compare                                compare the schedule under alternative settings
//	template list|save|use                 manage reusable room lists
//	backup export|import                   copy preferences, templates and catalog
//	archive list|show|delete               browse schedules archived in PostgreSQL
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/piwi3910/CircuitSizer/internal/config"
	"github.com/piwi3910/CircuitSizer/internal/logger"
	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/piwi3910/CircuitSizer/internal/project"
	"github.com/piwi3910/CircuitSizer/internal/session"
)

const serviceName = "circuitsizer"

// app holds what every command needs.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	sessions  *session.Store
	sessionID string
	redis     *redis.Client

	appConfigPath string
	appConfig     model.AppConfig
	hasAppConfig  bool
}

func main() {
	configPath := flag.String("config", "", "Path to circuitsizer.yaml (default: ./circuitsizer.yaml or ./config/)")
	sessionID := flag.String("session", "default", "Session holding the room list")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, log, *sessionID)
	if err != nil {
		log.Error("Failed to initialize", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Debug("Command failed", zap.Strings("args", flag.Args()), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config file] [-session id] <command> [flags]\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  room add|list|clear|undo|redo|import")
	fmt.Fprintln(os.Stderr, "  calc")
	fmt.Fprintln(os.Stderr, "  compare")
	fmt.Fprintln(os.Stderr, "  template list|save|use")
	fmt.Fprintln(os.Stderr, "  backup export|import")
	fmt.Fprintln(os.Stderr, "  archive list|show|delete")
	fmt.Fprintln(os.Stderr, "\nGlobal flags:")
	flag.PrintDefaults()
}

func newApp(cfg *config.Config, log *zap.Logger, sessionID string) (*app, error) {
	a := &app{
		cfg:           cfg,
		log:           log,
		sessionID:     sessionID,
		appConfigPath: project.PathOr(cfg.Paths.AppConfig, "config.json"),
	}

	if _, err := os.Stat(a.appConfigPath); err == nil {
		a.hasAppConfig = true
	}
	appConfig, err := project.LoadAppConfig(a.appConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	a.appConfig = appConfig

	var kv session.KVStore
	if cfg.Redis.Addr != "" {
		a.redis = session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		kv = session.NewRedisKVStore(a.redis)
		log.Debug("Using Redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		dir := project.PathOr(cfg.Paths.SessionDir, "sessions")
		fileKV, err := session.NewFileKVStore(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open session directory: %w", err)
		}
		kv = fileKV
		log.Debug("Using file session store", zap.String("dir", dir))
	}
	a.sessions = session.NewStore(kv, cfg.Redis.TTL, log)

	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
}

// baseSettings returns the saved preferences when present, else the
// configured design defaults.
func (a *app) baseSettings() model.DesignSettings {
	if a.hasAppConfig {
		s := model.DefaultSettings()
		a.appConfig.ApplyToSettings(&s)
		return s
	}
	return a.cfg.Design.Settings()
}

// defaultVoltages returns the lighting and outlet voltages for new rooms.
func (a *app) defaultVoltages() (int, int) {
	if a.hasAppConfig {
		return a.appConfig.DefaultLightingVoltage, a.appConfig.DefaultOutletVoltage
	}
	return a.cfg.Design.LightingVoltage, a.cfg.Design.OutletVoltage
}

func (a *app) catalogPath() string {
	return project.PathOr(a.cfg.Paths.Catalog, "catalog.json")
}

func (a *app) templatesPath() string {
	return project.PathOr(a.cfg.Paths.Templates, "templates.json")
}
