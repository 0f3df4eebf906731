package artifact

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startWatcher(t *testing.T, dir string) (*Holder, chan error, func()) {
	t.Helper()
	loader := NewLoader(NewLocalSource(dir), fixtureNames)
	pipeline, report, err := loader.Load(context.Background())
	require.NoError(t, err)

	holder := NewHolder(0)
	_, err = holder.Swap(pipeline, report)
	require.NoError(t, err)

	reloads := make(chan error, 16)
	w := NewWatcher(loader, holder, zaptest.NewLogger(t))
	w.SetDebounce(10 * time.Millisecond)
	w.OnReload(func(err error) {
		select {
		case reloads <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	return holder, reloads, func() {
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, holder.Close())
	}
}

func TestWatcherReloadsChangedArtifacts(t *testing.T) {
	dir := writeFixtures(t)
	holder, _, stop := startWatcher(t, dir)
	defer stop()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, fixtureNames.Labels), []byte(`{"classes":["SMALL","BIG"]}`), 0o600)
		return assert.ObjectsAreEqual([]string{"SMALL", "BIG"}, holder.Classes())
	}, 5*time.Second, 100*time.Millisecond)
}

func TestWatcherKeepsPipelineOnFailedReload(t *testing.T) {
	dir := writeFixtures(t)
	holder, reloads, stop := startWatcher(t, dir)
	defer stop()

	var reloadErr error
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, fixtureNames.Labels), []byte(`{"classes":[]}`), 0o600)
		select {
		case reloadErr = <-reloads:
			return reloadErr != nil
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	assert.Equal(t, []string{"SEKER", "BOMBAY"}, holder.Classes())
}

type memorySource struct{}

func (memorySource) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (memorySource) String() string { return "memory" }

func TestWatcherRequiresLocalSource(t *testing.T) {
	w := NewWatcher(NewLoader(memorySource{}, fixtureNames), NewHolder(0), nil)
	assert.Error(t, w.Run(context.Background()))
}
