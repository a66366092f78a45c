package destination

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/jgivc/rgudw/internal/util"
	"github.com/spf13/afero"
)

const (
	dirPerm = 0o755
)

// destinationStorage is the download tree: <root>/<id>/<filename>.
// Presence of a file is the only record of a finished download.
type destinationStorage struct {
	fs         afero.Fs
	root       string
	verifySize bool
	log        *slog.Logger
}

func NewDestinationStorage(fs afero.Fs, root string, verifySize bool, log *slog.Logger) *destinationStorage {
	return &destinationStorage{
		fs:         fs,
		root:       root,
		verifySize: verifySize,
		log:        log.With(slog.String("item", "DestinationStorage")),
	}
}

// PackagePath returns where the package file of id is stored.
func (d *destinationStorage) PackagePath(id, filename string) string {
	return util.PackagePath(d.root, id, filename)
}

// EnsureRoot creates the root directory and its parents when absent.
func (d *destinationStorage) EnsureRoot() error {
	if d.dirExists(d.root) {
		return nil
	}

	d.log.Info("Creating folder for game updates", slog.String("path", d.root))

	if err := d.fs.MkdirAll(d.root, dirPerm); err != nil {
		return fmt.Errorf("%w: cannot create %s: %w", common.ErrFilesystem, d.root, err)
	}

	return nil
}

// EnsureTitleDir creates the per-title directory when absent. Safe to call repeatedly.
func (d *destinationStorage) EnsureTitleDir(id string) error {
	dir := util.TitleDir(d.root, id)
	if d.dirExists(dir) {
		return nil
	}

	if err := d.fs.Mkdir(dir, dirPerm); err != nil && !os.IsExist(err) {
		return fmt.Errorf("%w: cannot create %s: %w", common.ErrFilesystem, dir, err)
	}

	return nil
}

// ShouldSkip reports whether filename already exists in the directory of id.
// Existence is authoritative; with size verification enabled the file must
// also have exactly size bytes.
func (d *destinationStorage) ShouldSkip(id, filename string, size int64) bool {
	if filename == "" {
		return false
	}

	path := util.PackagePath(d.root, id, filename)

	stat, err := d.fs.Stat(path)
	if err != nil || !stat.Mode().IsRegular() {
		return false
	}

	if d.verifySize && stat.Size() != size {
		d.log.Warn("Size mismatch, downloading again", slog.String("path", path),
			slog.Int64("size", stat.Size()), slog.Int64("expected", size))

		return false
	}

	return true
}

func (d *destinationStorage) dirExists(path string) bool {
	ok, err := afero.DirExists(d.fs, path)

	return err == nil && ok
}
