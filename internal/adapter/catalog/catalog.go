package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	CatalogFileName = "games.yml"
	identifierLen   = 9
)

type catalogLoader struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewCatalogLoaderWithFS(fs afero.Fs, log *slog.Logger) *catalogLoader {
	return &catalogLoader{
		fs:  fs,
		log: log.With(slog.String("item", "CatalogLoader")),
	}
}

// Load turns the command line argument into raw identifiers.
// A path to an existing games.yml yields its top-level keys in file order,
// a 9-character string yields itself. Anything else is ErrInvalidInput.
func (c *catalogLoader) Load(input string) ([]string, error) {
	if filepath.Base(input) == CatalogFileName && c.fileExists(input) {
		return c.loadFile(input)
	}

	if len(input) == identifierLen {
		return []string{input}, nil
	}

	return nil, common.ErrInvalidInput
}

func (c *catalogLoader) loadFile(path string) ([]string, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog %s: %w", path, err)
	}

	var games yaml.MapSlice
	if err := yaml.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("cannot parse catalog %s: %w", path, err)
	}

	if len(games) < 1 {
		return nil, fmt.Errorf("catalog %s has no games", path)
	}

	ids := make([]string, 0, len(games))
	for _, item := range games {
		ids = append(ids, fmt.Sprint(item.Key))
	}

	c.log.Info("Catalog loaded", slog.String("path", path), slog.Int("count", len(ids)))

	return ids, nil
}

func (c *catalogLoader) fileExists(path string) bool {
	stat, err := c.fs.Stat(path)
	if err != nil {
		return false
	}

	return !stat.IsDir()
}
