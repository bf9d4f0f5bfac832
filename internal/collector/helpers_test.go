package collector

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/nao1215/devfingerprint/internal/drm"
	"github.com/nao1215/devfingerprint/internal/probe"
)

type fakeDisk struct {
	usage probe.Usage
	err   error
}

func (f fakeDisk) Usage(context.Context, string) (probe.Usage, error) {
	return f.usage, f.err
}

type fakeRunner struct {
	out string
	err error
}

func (f fakeRunner) Run(context.Context, string) (string, error) {
	return f.out, f.err
}

type fakeDRM struct {
	data    []byte
	openErr error
}

func (f fakeDRM) Open(uuid.UUID) (drm.Session, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return fakeSession(f), nil
}

type fakeSession fakeDRM

func (s fakeSession) PropertyByteArray(string) ([]byte, error) { return s.data, nil }
func (s fakeSession) Release()                                 {}

type fakeInterfaces struct {
	byName map[string]string
	all    []HardwareInterface
	err    error
}

func (f fakeInterfaces) ByName(name string) (string, error) {
	mac, ok := f.byName[name]
	if !ok {
		return "", errors.New("no such network interface")
	}
	return mac, nil
}

func (f fakeInterfaces) All(context.Context) ([]HardwareInterface, error) {
	return f.all, f.err
}

// panicStore panics on one key to inject a sub-step fault.
type panicStore struct {
	probe.MapStore
	key string
}

func (p panicStore) Lookup(key string) (string, error) {
	if key == p.key {
		panic("property service died")
	}
	return p.MapStore.Lookup(key)
}

// newTestEnv builds an Env over a temp sysroot populated with files.
func newTestEnv(t *testing.T, files map[string]string) (Env, *bytes.Buffer) {
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

	env := Env{
		FS:           probe.NewFS(root, logger),
		BuildProps:   probe.MapStore{"ro.product.model": "Pixel 7"},
		RuntimeProps: probe.MapStore{"os.name": "Linux"},
		Disk:         fakeDisk{usage: probe.Usage{Total: 1000, Free: 400, Available: 300}},
		Runner:       fakeRunner{out: "  File: \"/storage/emulated/0\"\n"},
		Statfs: func(string) (probe.StatfsInfo, error) {
			return probe.StatfsInfo{Type: 61267, BlockSize: 4096, Blocks: 10, FreeBlocks: 4,
				AvailBlocks: 3, Files: 100, FreeFiles: 50, FSID: [2]int32{1, 2}, NameLen: 255}, nil
		},
		Uname: func() (probe.UnameInfo, error) {
			return probe.UnameInfo{Sysname: "Linux", Nodename: "localhost", Release: "5.10.157",
				Version: "#1 SMP PREEMPT", Machine: "aarch64", Domainname: "(none)"}, nil
		},
		DRM:        fakeDRM{data: []byte{1, 2, 3, 4}},
		Interfaces: fakeInterfaces{},
		Layout:     DefaultLayout(),
		Logger:     logger,
	}
	return env, &logs
}

type panicProvider struct{}

func (panicProvider) Open(uuid.UUID) (drm.Session, error) {
	panic("widevine crashed")
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, string) (string, error) {
	panic("sh crashed")
}

// recordingRunner remembers every command it was asked to run.
type recordingRunner struct {
	commands []string
}

func (r *recordingRunner) Run(_ context.Context, command string) (string, error) {
	r.commands = append(r.commands, command)
	return "", nil
}
