package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBarObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewBarObserver(&buf)

	obs.Progress(10, 10) // before Start, ignored
	require.Empty(t, buf.String())

	obs.Start("update.pkg", 2048)
	obs.Progress(1024, 2048)
	obs.Progress(2048, 2048)
	obs.Finish(nil)

	require.Contains(t, buf.String(), "update.pkg")
	require.Nil(t, obs.bar)
}

func TestBarObserverUnknownLength(t *testing.T) {
	var buf bytes.Buffer
	obs := NewBarObserver(&buf)

	obs.Start("update.pkg", 0)
	obs.Progress(4096, 0)
	obs.Finish(errors.New("broken pipe"))

	require.Contains(t, buf.String(), "update.pkg")
	require.Nil(t, obs.bar)

	obs.Finish(nil)
}
