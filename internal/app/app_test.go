package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/jgivc/rgudw/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestConfig(manifestURL string) *config.Config {
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Destination = "/updates"
	cfg.Manifest.URL = manifestURL
	cfg.Download.Progress = false

	return cfg
}

func TestRunCatalog(t *testing.T) {
	pkgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data")
	}))
	defer pkgSrv.Close()

	mux := http.NewServeMux()
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	mux.HandleFunc("/tpl/np/NPUB30001/NPUB30001-ver.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/tpl/np/BLES00002/BLES00002-ver.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<titlepatch titleid="BLES00002"><tag>
<package version="01.01" size="4" url="%s/pkg/a.pkg" ps3_system_ver="03.5000"/>
</tag></titlepatch>`, pkgSrv.URL)
	})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/games.yml", []byte("NPUB30001: A\nbles00002: B\n"), os.ModePerm))

	a := NewWithConfig(newTestConfig(srv.URL+"/tpl/np/{ID}/{ID}-ver.xml"), fs, io.Discard)

	report, err := a.Run(context.Background(), "/cfg/games.yml")
	require.NoError(t, err)
	require.Equal(t, 1, report.NoManifest)
	require.Equal(t, 1, report.Downloaded)

	data, err := afero.ReadFile(fs, filepath.Join("/updates", "BLES00002", "a.pkg"))
	require.NoError(t, err)
	require.Equal(t, "data", string(data))
}

func TestRunInvalidInput(t *testing.T) {
	a := NewWithConfig(newTestConfig("http://127.0.0.1:1/{ID}"), afero.NewMemMapFs(), io.Discard)

	_, err := a.Run(context.Background(), "BLUS1")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = a.Run(context.Background(), "ZZZZ12345")
	require.ErrorIs(t, err, common.ErrInvalidIdentifier)
}

func TestRunUnknownLogLevel(t *testing.T) {
	cfg := newTestConfig("http://127.0.0.1:1/{ID}")
	cfg.LogLevel = "loud"

	_, err := NewWithConfig(cfg, afero.NewMemMapFs(), io.Discard).Run(context.Background(), "BLUS12345")
	require.Error(t, err)
}
