package collector

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/devfingerprint/internal/probe"
)

func TestSystemFileSystemInfo(t *testing.T) {
	t.Parallel()

	t.Run("all methods succeed", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		out := NewSystem(env).FileSystemInfo(context.Background())

		expected := "=== File System Information ===\n\n" +
			"Java StatFs Method:\nTotal Bytes: 1000\nFree Bytes: 400\nAvailable Bytes: 300\n\n" +
			"stat command output:\n  File: \"/storage/emulated/0\"\n\n" +
			"statfs64 system call:\n" +
			"File System Type: 61267\nBlock Size: 4096\nTotal Blocks: 10\nFree Blocks: 4\n" +
			"Available Blocks: 3\nTotal File Nodes: 100\nFree File Nodes: 50\n" +
			"File System ID: 1, 2\nMax Filename Length: 255\n"
		if out != expected {
			t.Errorf("got:\n%q\nexpected:\n%q", out, expected)
		}
	})

	t.Run("each method fails independently", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.Disk = fakeDisk{err: errors.New("no volume")}
		env.Runner = fakeRunner{err: errors.New("exec: sh not found")}
		env.Statfs = func(string) (probe.StatfsInfo, error) {
			return probe.StatfsInfo{}, errors.New("ENOENT")
		}

		out := NewSystem(env).FileSystemInfo(context.Background())
		for _, want := range []string{
			"Java StatFs Method: Failed\n\n",
			"stat command output:\nFailed to execute stat command\n\n",
			"statfs64 system call:\nstatfs64 system call failed\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in:\n%s", want, out)
			}
		}
	})

	t.Run("statfs failure alone", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.Statfs = func(string) (probe.StatfsInfo, error) {
			return probe.StatfsInfo{}, probe.ErrNotSupported
		}
		out := NewSystem(env).FileSystemInfo(context.Background())
		if !strings.Contains(out, "Total Bytes: 1000\n") || !strings.Contains(out, "statfs64 system call failed\n") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("statfs panic keeps the other methods", func(t *testing.T) {
		t.Parallel()

		env, logs := newTestEnv(t, nil)
		env.Statfs = func(string) (probe.StatfsInfo, error) {
			panic("EFAULT")
		}

		out := NewSystem(env).FileSystemInfo(context.Background())
		for _, want := range []string{
			"Java StatFs Method:\nTotal Bytes: 1000\n",
			"stat command output:\n  File: \"/storage/emulated/0\"\n\n",
			"statfs64 system call:\nstatfs64 system call failed\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Unable to retrieve") {
			t.Errorf("expected the section to survive, got:\n%s", out)
		}
		if !strings.Contains(logs.String(), "statfs panicked") {
			t.Error("expected an error log for the panic")
		}
	})

	t.Run("stat command panic keeps the other methods", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.Runner = panicRunner{}

		out := NewSystem(env).FileSystemInfo(context.Background())
		for _, want := range []string{
			"Total Bytes: 1000\n",
			"stat command output:\nFailed to execute stat command\n\n",
			"Max Filename Length: 255\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in:\n%s", want, out)
			}
		}
	})

	t.Run("stat target is quoted", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.Layout.StoragePath = "/mnt/my card; echo hi"
		runner := &recordingRunner{}
		env.Runner = runner

		NewSystem(env).FileSystemInfo(context.Background())

		expected := "stat -f " + shellQuote(env.FS.Path("/mnt/my card; echo hi"))
		if len(runner.commands) != 1 || runner.commands[0] != expected {
			t.Errorf("expected command %q, got %v", expected, runner.commands)
		}
	})
}

func TestSystemDrmID(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		out := NewSystem(env).DrmID(context.Background())
		expected := "\n=== DRM ID Information ===\n\nDRM ID: AQIDBA==\n"
		if out != expected {
			t.Errorf("got %q, expected %q", out, expected)
		}
	})

	t.Run("session creation failure", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.DRM = fakeDRM{openErr: errors.New("ERROR_DRM_CANNOT_HANDLE")}
		out := NewSystem(env).DrmID(context.Background())

		expected := "\n=== DRM ID Information ===\n\nUnable to retrieve: Failed to create MediaDrm instance\n"
		if out != expected {
			t.Errorf("got %q, expected %q", out, expected)
		}
		if strings.Contains(out, "DRM ID:") {
			t.Error("no partial id may be reported")
		}
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.DRM = fakeDRM{data: nil}
		out := NewSystem(env).DrmID(context.Background())
		if !strings.HasSuffix(out, "Unable to retrieve: Device unique ID is null or empty\n") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestSystemKernelFilesInfo(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1200)
	env, _ := newTestEnv(t, map[string]string{
		"/system/build.prop": "# begin\nro.product.model=Pixel 7\nro.build.id=TQ3A\n",
		"/vendor/build.prop": "",
		"/proc/version":      "Linux version 5.10.157",
		"/proc/cpuinfo":      long,
	})
	out := NewSystem(env).KernelFilesInfo(context.Background())

	for _, want := range []string{
		"\n=== Kernel Files Information ===\n\n=== /system/build.prop ===\nro.product.model=Pixel 7\nro.build.id=TQ3A\n\n",
		"=== /odm/etc/build.prop ===\nFile does not exist\n\n",
		"=== /vendor/build.prop ===\nFile is empty or could not be read\n\n",
		"=== Other System Files ===\n--- /proc/version ---\nLinux version 5.10.157\n\n",
		"--- /proc/cpuinfo ---\n" + strings.Repeat("x", 1000) + "...\n\n",
		"--- /proc/meminfo ---\nFile does not exist\n\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestSystemFilesInfo(t *testing.T) {
	t.Parallel()

	t.Run("identifier files and uname", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, map[string]string{
			"/proc/sys/kernel/random/boot_id": "5f1c6e2a-1111-2222-3333-444455556666\n",
			"/sys/devices/soc0/serial_number": "",
			"/proc/cmdline":                   strings.Repeat("c", 600),
		})
		out := NewSystem(env).SystemFilesInfo(context.Background())

		for _, want := range []string{
			"\n=== System Files Information (Important Device Fingerprints) ===\n\n",
			"=== /proc/sys/kernel/random/boot_id ===\nContent: 5f1c6e2a-1111-2222-3333-444455556666\n\n",
			"=== /proc/sys/kernel/random/uuid ===\nFile does not exist\n\n",
			"=== /sys/devices/soc0/serial_number ===\nFile exists but could not be read\n\n",
			"=== uname system call (Android 11+ fallback) ===\nsysname: Linux\nnodename: localhost\n",
			"domainname: (none)\n\n=== Additional System Information ===\n",
			"--- /proc/cmdline ---\n" + strings.Repeat("c", 500) + "...\n\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in:\n%s", want, out)
			}
		}
		if strings.Contains(out, "/sys/class/dmi/id/product_uuid") {
			t.Error("absent additional files must be skipped")
		}
	})

	t.Run("uname failure", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t, nil)
		env.Uname = func() (probe.UnameInfo, error) {
			return probe.UnameInfo{}, probe.ErrNotSupported
		}
		out := NewSystem(env).SystemFilesInfo(context.Background())
		if !strings.Contains(out, "uname system call failed, error: not supported on this platform\n") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
}

func TestSystemCollect(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, nil)
	s := NewSystem(env)
	out := s.Collect(context.Background())

	ctx := context.Background()
	expected := "=== System Information Collection ===\n\n" +
		s.FileSystemInfo(ctx) + s.DrmID(ctx) + s.KernelFilesInfo(ctx) + s.SystemFilesInfo(ctx)
	if out != expected {
		t.Errorf("Collect must concatenate the four parts in order")
	}
	if s.Name() != "SystemCollector" {
		t.Errorf("unexpected name %q", s.Name())
	}
}

func TestSystemDrmPanicContained(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, nil)
	env.DRM = panicProvider{}
	out := NewSystem(env).Collect(context.Background())

	if !strings.Contains(out, "\n=== DRM ID Information ===\n\nUnable to retrieve: widevine crashed\n") {
		t.Errorf("expected contained panic:\n%s", out)
	}
	if !strings.Contains(out, "=== Kernel Files Information ===") {
		t.Error("later parts must still run")
	}
}
