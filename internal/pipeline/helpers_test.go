package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/nao1215/devfingerprint/internal/collector"
	"github.com/nao1215/devfingerprint/internal/drm"
	"github.com/nao1215/devfingerprint/internal/probe"
)

type stubDisk struct{}

func (stubDisk) Usage(context.Context, string) (probe.Usage, error) {
	return probe.Usage{Total: 100, Free: 50, Available: 40}, nil
}

type stubRunner struct{}

func (stubRunner) Run(context.Context, string) (string, error) {
	return "stat output\n", nil
}

type failingDRM struct{}

func (failingDRM) Open(uuid.UUID) (drm.Session, error) {
	return nil, errors.New("no widevine")
}

type stubInterfaces struct{}

func (stubInterfaces) ByName(string) (string, error) {
	return "", errors.New("no such network interface")
}

func (stubInterfaces) All(context.Context) ([]collector.HardwareInterface, error) {
	return nil, nil
}

// newTestEnv returns an Env over a temp sysroot with deterministic fakes.
func newTestEnv(t *testing.T, files map[string]string) (collector.Env, *bytes.Buffer) {
	t.Helper()

	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return collector.Env{
		FS:           probe.NewFS(root, logger),
		BuildProps:   probe.MapStore{"ro.product.model": "Pixel 7"},
		RuntimeProps: probe.MapStore{},
		Disk:         stubDisk{},
		Runner:       stubRunner{},
		Statfs: func(string) (probe.StatfsInfo, error) {
			return probe.StatfsInfo{}, probe.ErrNotSupported
		},
		Uname: func() (probe.UnameInfo, error) {
			return probe.UnameInfo{Sysname: "Linux"}, nil
		},
		DRM:        failingDRM{},
		Interfaces: stubInterfaces{},
		Layout:     collector.DefaultLayout(),
		Logger:     logger,
	}, &logs
}
