package manifest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/jgivc/rgudw/internal/config"
	"github.com/jgivc/rgudw/internal/entity"
	"github.com/jgivc/rgudw/internal/util"
)

const (
	idPlaceholder   = "{ID}"
	maxManifestSize = 4 << 20
)

type titlePatch struct {
	TitleID string       `xml:"titleid,attr"`
	Tag     *manifestTag `xml:"tag"`
}

type manifestTag struct {
	Packages []manifestPackage `xml:"package"`
}

type manifestPackage struct {
	Version          string    `xml:"version,attr"`
	Size             string    `xml:"size,attr"`
	MinSystemVersion string    `xml:"ps3_system_ver,attr"`
	URL              string    `xml:"url,attr"`
	ParamSFO         *paramSFO `xml:"paramsfo"`
}

type paramSFO struct {
	Title *string `xml:"TITLE"`
}

type manifestFetcher struct {
	cl          *http.Client
	urlTemplate string
	userAgent   string
	log         *slog.Logger
}

// NewManifestFetcher builds a fetcher whose client skips TLS verification when
// cfg.InsecureSkipVerify is set. The update feed serves a certificate chain that
// does not verify against system roots; no other client in the program does this.
func NewManifestFetcher(cfg *config.ManifestConfig, userAgent string, log *slog.Logger) *manifestFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return NewManifestFetcherWithClient(&http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, cfg.URL, userAgent, log)
}

func NewManifestFetcherWithClient(cl *http.Client, urlTemplate, userAgent string, log *slog.Logger) *manifestFetcher {
	return &manifestFetcher{
		cl:          cl,
		urlTemplate: urlTemplate,
		userAgent:   userAgent,
		log:         log.With(slog.String("item", "ManifestFetcher")),
	}
}

// URL returns the manifest location for id.
func (f *manifestFetcher) URL(id entity.Identifier) string {
	return strings.ReplaceAll(f.urlTemplate, idPlaceholder, id.String())
}

// Fetch downloads and parses the manifest of id.
// It returns common.ErrNoManifest when the feed has nothing for the title.
func (f *manifestFetcher) Fetch(ctx context.Context, id entity.Identifier) (*entity.Title, error) {
	manifestURL := f.URL(id)
	log := f.log.With(slog.String("id", id.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create request for %s: %w", common.ErrManifestFetch, id, err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.cl.Do(req)
	if err != nil {
		log.Error("Cannot request manifest", slog.String("url", manifestURL), slog.Any("error", err))

		return nil, fmt.Errorf("%w: %s: %w", common.ErrManifestFetch, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s manifest: %w", common.ErrManifestFetch, id, err)
	}

	// The update server answers unknown titles with an empty body, whatever the status.
	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debug("Manifest not found")

		return nil, fmt.Errorf("%w: %s", common.ErrNoManifest, id)
	case len(bytes.TrimSpace(body)) == 0:
		log.Debug("Manifest is empty", slog.Int("status", resp.StatusCode))

		return nil, fmt.Errorf("%w: %s", common.ErrNoManifest, id)
	case resp.StatusCode != http.StatusOK:
		log.Error("Unexpected manifest status", slog.Int("status", resp.StatusCode))

		return nil, fmt.Errorf("%w: %s: unexpected status %s", common.ErrManifestFetch, id, resp.Status)
	}

	title, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrManifestParse, id, err)
	}

	if title.ID != id {
		log.Warn("Manifest titleid differs from requested id", slog.String("title_id", title.ID.String()))

		title.ID = id
	}

	log.Info("Manifest parsed", slog.String("title_id", title.ID.String()), slog.Int("packages", len(title.Packages)))

	return title, nil
}

// Parse converts a manifest document into a Title. When several packages carry a
// name, the last one wins.
func Parse(data []byte) (*entity.Title, error) {
	var doc titlePatch
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed xml: %w", err)
	}

	if doc.TitleID == "" {
		return nil, fmt.Errorf("missing titleid attribute")
	}

	if doc.Tag == nil {
		return nil, fmt.Errorf("missing tag element")
	}

	title := &entity.Title{
		ID:       entity.Identifier(doc.TitleID),
		Packages: make([]*entity.UpdatePackage, 0, len(doc.Tag.Packages)),
	}

	for i, p := range doc.Tag.Packages {
		pkg, err := toUpdatePackage(&p)
		if err != nil {
			return nil, fmt.Errorf("package %d: %w", i, err)
		}

		pkg.Title = title
		title.Packages = append(title.Packages, pkg)

		if p.ParamSFO != nil && p.ParamSFO.Title != nil {
			title.Name = normalizeName(*p.ParamSFO.Title)
		}
	}

	return title, nil
}

func toUpdatePackage(p *manifestPackage) (*entity.UpdatePackage, error) {
	required := []struct{ attr, value string }{
		{"version", p.Version},
		{"size", p.Size},
		{"ps3_system_ver", p.MinSystemVersion},
		{"url", p.URL},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("missing %s attribute", r.attr)
		}
	}

	size, err := util.ParseSize(p.Size)
	if err != nil {
		return nil, err
	}

	// An unusable url fails the download of this package only.
	filename, filenameErr := util.FilenameFromURL(p.URL)

	return &entity.UpdatePackage{
		Version:          p.Version,
		Size:             size,
		SizeMB:           util.BytesToMegabytes(size),
		MinSystemVersion: p.MinSystemVersion,
		URL:              p.URL,
		Filename:         filename,
		FilenameErr:      filenameErr,
	}, nil
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r\n", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	return strings.TrimSpace(name)
}
