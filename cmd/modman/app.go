// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/modhost/modman/internal/config"
	"github.com/modhost/modman/pkg/modpkg"
	"github.com/modhost/modman/pkg/semver"
	"github.com/modhost/modman/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and goes through its services, so tests can swap them.
	App struct {
		Config   ConfigProvider
		Registry RegistryService
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Registry RegistryService
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// OpenRequest carries the global flags that shape a registry.
	OpenRequest struct {
		// ConfigPath is the explicit --config value.
		ConfigPath string
		// ModsRoot, FallbackRoot and HostVersion override the configuration
		// when non-empty.
		ModsRoot     string
		FallbackRoot string
		HostVersion  string
		Verbose      bool
	}

	// Session is an opened registry together with the configuration that
	// produced it.
	Session struct {
		Registry *modpkg.Registry
		Config   *config.Config
		Logger   *log.Logger
	}

	// RegistryService opens the mod registry for one CLI invocation.
	RegistryService interface {
		Open(ctx context.Context, req OpenRequest) (*Session, error)
	}

	appRegistryService struct {
		config ConfigProvider
		stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registry == nil {
		deps.Registry = &appRegistryService{config: deps.Config, stderr: deps.Stderr}
	}

	return &App{
		Config:   deps.Config,
		Registry: deps.Registry,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// loadConfig applies the flag overrides in req on top of the loaded config.
func loadConfig(ctx context.Context, provider ConfigProvider, req OpenRequest) (*config.Config, error) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: req.ConfigPath})
	if err != nil {
		return nil, err
	}

	if req.ModsRoot != "" {
		cfg.ModsRoot = types.FilesystemPath(req.ModsRoot)
	}
	if req.FallbackRoot != "" {
		cfg.FallbackRoot = types.FilesystemPath(req.FallbackRoot)
	}
	if req.HostVersion != "" {
		cfg.HostVersion = config.HostVersion(req.HostVersion)
	}
	if req.Verbose {
		cfg.UI.Verbose = true
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}
	return cfg, nil
}

// Open loads configuration and builds the registry. Packages are classified
// with semantic-version ranges against the configured host version.
func (s *appRegistryService) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	cfg, err := loadConfig(ctx, s.config, req)
	if err != nil {
		return nil, err
	}

	logger := newLogger(s.stderr, cfg.UI.Verbose)

	reg, err := modpkg.New(
		string(cfg.FallbackRoot),
		string(cfg.ModsRoot),
		modpkg.Host{
			Version:    modpkg.StaticVersion(string(cfg.HostVersion)),
			Compatible: semver.Compatible,
		},
		modpkg.WithLogger(logger),
	)
	if err != nil {
		return nil, classifyRegistryError(err, string(cfg.ModsRoot))
	}

	logger.Debug("opened registry", "registry", reg.String())
	return &Session{Registry: reg, Config: cfg, Logger: logger}, nil
}

// newLogger builds the CLI logger. Verbose mode lowers the level to debug and
// adds timestamps.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "modman",
		Level:           level,
		ReportTimestamp: verbose,
	})
}
