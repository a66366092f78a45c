package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jgivc/rgudw/internal/adapter/catalog"
	"github.com/jgivc/rgudw/internal/adapter/manifest"
	"github.com/jgivc/rgudw/internal/adapter/progress"
	"github.com/jgivc/rgudw/internal/config"
	"github.com/jgivc/rgudw/internal/service/download"
	"github.com/jgivc/rgudw/internal/service/update"
	"github.com/jgivc/rgudw/internal/storage/destination"
	"github.com/spf13/afero"
)

const (
	Name    = "rgudw"
	Version = "1.0"
)

type App struct {
	cfgPath string
	cfg     *config.Config
	fs      afero.Fs
	out     io.Writer
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
		fs:      afero.NewOsFs(),
		out:     os.Stderr,
	}
}

// NewWithConfig builds an App around an already loaded config and filesystem.
func NewWithConfig(cfg *config.Config, fs afero.Fs, out io.Writer) *App {
	return &App{
		cfg: cfg,
		fs:  fs,
		out: out,
	}
}

// Run downloads the missing updates for input, a games.yml path or a single ID.
func (a *App) Run(ctx context.Context, input string) (*update.Report, error) {
	if a.cfg == nil {
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return nil, err
		}

		a.cfg = cfg
	}

	log, err := newLogger(a.out, a.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a.log = log.With(slog.String("run_id", uuid.NewString()))
	a.log.Debug("Config loaded", slog.String("destination", a.cfg.Destination), slog.String("manifest_url", a.cfg.Manifest.URL))

	raw, err := catalog.NewCatalogLoaderWithFS(a.fs, a.log).Load(input)
	if err != nil {
		return nil, err
	}

	var observer download.Observer
	if a.cfg.Download.Progress {
		observer = progress.NewBarObserver(a.out)
	}

	fetcher := manifest.NewManifestFetcher(&a.cfg.Manifest, a.cfg.UserAgent, a.log)
	store := destination.NewDestinationStorage(a.fs, a.cfg.Destination, a.cfg.VerifySize, a.log)
	dl := download.NewDownloadService(&http.Client{Timeout: a.cfg.Download.Timeout}, a.fs, a.cfg.UserAgent, observer, a.log)

	return update.NewUpdateService(fetcher, store, dl, a.log).Run(ctx, raw)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}

	return slog.New(slog.NewTextHandler(w, lo)), nil
}
