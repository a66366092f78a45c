package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/spf13/afero"
)

const (
	serviceName = "download"

	ChunkSize = 8 << 10
	filePerm  = 0o644
)

// Observer receives the running byte count of a transfer.
// total is 0 when the server did not announce a content length.
type Observer interface {
	Start(name string, total int64)
	Progress(written, total int64)
	Finish(err error)
}

type downloadService struct {
	cl        *http.Client
	fs        afero.Fs
	userAgent string
	observer  Observer
	log       *slog.Logger
}

func NewDownloadService(cl *http.Client, fs afero.Fs, userAgent string, observer Observer, log *slog.Logger) *downloadService {
	return &downloadService{
		cl:        cl,
		fs:        fs,
		userAgent: userAgent,
		observer:  observer,
		log:       log.With(slog.String("service", serviceName)),
	}
}

// Download streams url into path and returns the number of bytes written.
// HTTP and stream failures wrap common.ErrTransfer and leave no file behind.
// Failing to create the file wraps common.ErrFilesystem.
func (d *downloadService) Download(ctx context.Context, url, path string) (int64, error) {
	log := d.log.With(slog.String("url", url), slog.String("path", path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot create request: %w", common.ErrTransfer, err)
	}

	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.cl.Do(req)
	if err != nil {
		log.Error("Cannot request package", slog.Any("error", err))

		return 0, fmt.Errorf("%w: %w", common.ErrTransfer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Unexpected package status", slog.Int("status", resp.StatusCode))

		return 0, fmt.Errorf("%w: %s: %s", common.ErrTransfer, url, resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	f, err := d.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot create %s: %w", common.ErrFilesystem, path, err)
	}

	d.observe(func(o Observer) { o.Start(filepath.Base(path), total) })

	written, err := d.copy(f, resp.Body, total)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}

	d.observe(func(o Observer) { o.Finish(err) })

	if err != nil {
		log.Error("Transfer interrupted", slog.Int64("written", written), slog.Any("error", err))

		if rerr := d.fs.Remove(path); rerr != nil {
			log.Error("Cannot remove partial file", slog.Any("error", rerr))
		}

		return written, fmt.Errorf("%w: %s: %w", common.ErrTransfer, url, err)
	}

	log.Debug("Package downloaded", slog.Int64("bytes", written))

	return written, nil
}

func (d *downloadService) copy(dst io.Writer, src io.Reader, total int64) (int64, error) {
	buf := make([]byte, ChunkSize)

	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}

			if wn != n {
				return written, io.ErrShortWrite
			}

			d.observe(func(o Observer) { o.Progress(written, total) })
		}

		if errors.Is(rerr, io.EOF) {
			return written, nil
		}

		if rerr != nil {
			return written, rerr
		}
	}
}

func (d *downloadService) observe(fn func(o Observer)) {
	if d.observer != nil {
		fn(d.observer)
	}
}
