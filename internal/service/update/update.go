package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/jgivc/rgudw/internal/entity"
	"github.com/jgivc/rgudw/internal/service/identifier"
)

type ManifestFetcher interface {
	Fetch(ctx context.Context, id entity.Identifier) (*entity.Title, error)
}

type DestinationStorage interface {
	EnsureRoot() error
	EnsureTitleDir(id string) error
	ShouldSkip(id, filename string, size int64) bool
	PackagePath(id, filename string) string
}

type Downloader interface {
	Download(ctx context.Context, url, path string) (int64, error)
}

// Report summarizes one run.
type Report struct {
	Titles     int // Titles with a manifest
	NoManifest int // Identifiers the feed had nothing for
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

// UpToDate reports whether the run found nothing to download.
func (r *Report) UpToDate() bool {
	return r.Downloaded == 0 && r.Failed == 0
}

type UpdateService struct {
	fetcher    ManifestFetcher
	store      DestinationStorage
	downloader Downloader
	log        *slog.Logger
}

func NewUpdateService(fetcher ManifestFetcher, store DestinationStorage, downloader Downloader, log *slog.Logger) *UpdateService {
	return &UpdateService{
		fetcher:    fetcher,
		store:      store,
		downloader: downloader,
		log:        log.With(slog.String("item", "UpdateService")),
	}
}

// Run validates every raw identifier, fetches the manifests in input order and
// downloads the packages that are not on disk yet.
// Invalid identifiers, manifest fetch or parse failures and filesystem errors abort
// the run. A missing manifest skips the title, a failed transfer skips the package.
func (s *UpdateService) Run(ctx context.Context, raw []string) (*Report, error) {
	report := &Report{}

	ids, err := s.validate(raw)
	if err != nil {
		return report, err
	}

	titles, err := s.fetchTitles(ctx, ids, report)
	if err != nil {
		return report, err
	}

	if err := s.downloadTitles(ctx, titles, report); err != nil {
		return report, err
	}

	s.log.Info("Run finished",
		slog.Int("titles", report.Titles),
		slog.Int("no_manifest", report.NoManifest),
		slog.Int("downloaded", report.Downloaded),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Int64("bytes", report.Bytes),
	)

	return report, nil
}

func (s *UpdateService) validate(raw []string) ([]entity.Identifier, error) {
	s.log.Info("Parsing ID(s)", slog.Int("count", len(raw)))

	ids := make([]entity.Identifier, 0, len(raw))
	for _, r := range raw {
		id, err := identifier.Validate(r)
		if err != nil {
			s.log.Error("Invalid ID", slog.String("id", r), slog.Any("error", err))

			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func (s *UpdateService) fetchTitles(ctx context.Context, ids []entity.Identifier, report *Report) ([]*entity.Title, error) {
	titles := make([]*entity.Title, 0, len(ids))
	for _, id := range ids {
		s.log.Info("Parsing metadata", slog.String("id", id.String()))

		title, err := s.fetcher.Fetch(ctx, id)
		if errors.Is(err, common.ErrNoManifest) {
			s.log.Info("No updates found", slog.String("id", id.String()))
			report.NoManifest++

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("cannot get metadata of %s: %w", id, err)
		}

		titles = append(titles, title)
	}

	report.Titles = len(titles)

	return titles, nil
}

func (s *UpdateService) downloadTitles(ctx context.Context, titles []*entity.Title, report *Report) error {
	if len(titles) == 0 {
		return nil
	}

	if err := s.store.EnsureRoot(); err != nil {
		return err
	}

	for _, title := range titles {
		id := title.ID.String()
		if err := s.store.EnsureTitleDir(id); err != nil {
			return err
		}

		for _, pkg := range title.Packages {
			if err := s.downloadPackage(ctx, title, pkg, report); err != nil {
				return err
			}
		}
	}

	return nil
}

// downloadPackage returns an error only when the run has to stop.
func (s *UpdateService) downloadPackage(ctx context.Context, title *entity.Title, pkg *entity.UpdatePackage, report *Report) error {
	id := title.ID.String()
	log := s.log.With(
		slog.String("id", id),
		slog.String("version", pkg.Version),
		slog.String("file", pkg.Filename),
	)

	if pkg.Filename == "" {
		log.Error("Package url has no file name", slog.String("url", pkg.URL), slog.Any("error", pkg.FilenameErr))
		report.Failed++

		return nil
	}

	if s.store.ShouldSkip(id, pkg.Filename, pkg.Size) {
		log.Debug("Already downloaded")
		report.Skipped++

		return nil
	}

	log.Info("Requesting game update download",
		slog.String("name", title.DisplayName()),
		slog.String("size_mb", pkg.SizeMB),
		slog.String("min_system_version", pkg.MinSystemVersion),
	)

	written, err := s.downloader.Download(ctx, pkg.URL, s.store.PackagePath(id, pkg.Filename))
	switch {
	case err == nil:
		report.Downloaded++
		report.Bytes += written
	case errors.Is(err, common.ErrFilesystem):
		return err
	default:
		log.Error("Cannot download package", slog.String("url", pkg.URL), slog.Any("error", err))
		report.Failed++
	}

	return nil
}
