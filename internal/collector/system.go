package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/devfingerprint/internal/buildprop"
	"github.com/nao1215/devfingerprint/internal/drm"
)

// SystemName is the name of the system information collector.
const SystemName = "SystemCollector"

// System collects filesystem statistics, the DRM device id and the
// kernel and system fingerprint files.
type System struct {
	env Env
}

// NewSystem creates a system information collector.
func NewSystem(env Env) *System {
	return &System{env: env.withDefaults()}
}

// Name implements Collector.
func (s *System) Name() string {
	return SystemName
}

func (s *System) logger() *slog.Logger {
	return s.env.Logger
}

// Collect implements Collector. The four parts run in order; each contains
// its own failures.
func (s *System) Collect(ctx context.Context) (out string) {
	var sb strings.Builder
	sb.WriteString("=== System Information Collection ===\n\n")

	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("collector panicked", "collector", SystemName, "error", r)
			out = sb.String() + fmt.Sprintf("Error: %v\n", r)
		}
	}()

	sb.WriteString(s.FileSystemInfo(ctx))
	sb.WriteString(s.DrmID(ctx))
	sb.WriteString(s.KernelFilesInfo(ctx))
	sb.WriteString(s.SystemFilesInfo(ctx))
	return sb.String()
}

// FileSystemInfo reports statistics for the storage path obtained three
// independent ways. A failing method does not affect the other two.
func (s *System) FileSystemInfo(ctx context.Context) string {
	const header = "=== File System Information ===\n\n"
	return guard(s.logger(), SystemName, "FileSystemInfo", header, func() string {
		path := s.env.Layout.StoragePath
		target := s.env.FS.Path(path)

		var sb strings.Builder
		sb.WriteString(header)
		sb.WriteString(s.managedStats(ctx, target))
		sb.WriteString(s.statCommand(ctx, target))
		sb.WriteString(s.statfsCall(target))
		return sb.String()
	})
}

func (s *System) managedStats(ctx context.Context, target string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("managed filesystem stats panicked", "error", r)
			out = "Java StatFs Method: Failed\n\n"
		}
	}()

	usage, err := s.env.Disk.Usage(ctx, target)
	if err != nil {
		s.logger().Error("managed filesystem stats failed", "path", target, "error", err)
		return "Java StatFs Method: Failed\n\n"
	}
	return fmt.Sprintf("Java StatFs Method:\nTotal Bytes: %d\nFree Bytes: %d\nAvailable Bytes: %d\n\n",
		usage.Total, usage.Free, usage.Available)
}

func (s *System) statCommand(ctx context.Context, target string) (out string) {
	const failed = "stat command output:\nFailed to execute stat command\n\n"
	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("stat command panicked", "error", r)
			out = failed
		}
	}()

	var sb strings.Builder
	sb.WriteString("stat command output:\n")

	command := "stat -f " + shellQuote(target)
	out, err := s.env.Runner.Run(ctx, command)
	if err != nil {
		s.logger().Error("failed to execute command", "command", command, "error", err)
		sb.WriteString("Failed to execute stat command\n")
	} else {
		sb.WriteString(out)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (s *System) statfsCall(target string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("statfs panicked", "path", target, "error", r)
			out = "statfs64 system call:\nstatfs64 system call failed\n"
		}
	}()

	var sb strings.Builder
	sb.WriteString("statfs64 system call:\n")

	st, err := s.env.Statfs(target)
	if err != nil {
		s.logger().Error("statfs failed", "path", target, "error", err)
		sb.WriteString("statfs64 system call failed\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "File System Type: %d\n", st.Type)
	fmt.Fprintf(&sb, "Block Size: %d\n", st.BlockSize)
	fmt.Fprintf(&sb, "Total Blocks: %d\n", st.Blocks)
	fmt.Fprintf(&sb, "Free Blocks: %d\n", st.FreeBlocks)
	fmt.Fprintf(&sb, "Available Blocks: %d\n", st.AvailBlocks)
	fmt.Fprintf(&sb, "Total File Nodes: %d\n", st.Files)
	fmt.Fprintf(&sb, "Free File Nodes: %d\n", st.FreeFiles)
	fmt.Fprintf(&sb, "File System ID: %d, %d\n", st.FSID[0], st.FSID[1])
	fmt.Fprintf(&sb, "Max Filename Length: %d\n", st.NameLen)
	return sb.String()
}

// DrmID reports the Widevine device-unique id in Base64, or the reason it
// could not be retrieved.
func (s *System) DrmID(_ context.Context) string {
	const header = "\n=== DRM ID Information ===\n\n"
	return guard(s.logger(), SystemName, "DrmID", header, func() string {
		s.logger().Info("starting DRM ID retrieval")

		id, err := drm.DeviceUniqueID(s.env.DRM, s.logger())
		if err != nil {
			return header + "Unable to retrieve: " + err.Error() + "\n"
		}
		return header + "DRM ID: " + id + "\n"
	})
}

// KernelFilesInfo reports the allow-listed build properties of each
// build.prop file, then the other kernel/system text files.
func (s *System) KernelFilesInfo(_ context.Context) string {
	const header = "\n=== Kernel Files Information ===\n\n"
	return guard(s.logger(), SystemName, "KernelFilesInfo", header, func() string {
		var sb strings.Builder
		sb.WriteString(header)

		for _, path := range s.env.Layout.BuildPropFiles {
			s.logger().Debug("reading file", "path", path)
			if !s.env.FS.Exists(path) {
				sb.WriteString(buildprop.Missing(path))
				continue
			}
			content, err := s.env.FS.Read(path)
			if err != nil {
				s.logger().Error("failed to read build.prop", "path", path, "error", err)
				content = ""
			}
			sb.WriteString(buildprop.Parse(content, path, s.env.Layout.BuildPropKeys))
		}

		sb.WriteString("=== Other System Files ===\n")
		for _, path := range s.env.Layout.OtherFiles {
			s.logger().Debug("reading file", "path", path)
			sb.WriteString("--- " + path + " ---\n")
			if !s.env.FS.Exists(path) {
				sb.WriteString(buildprop.NoticeMissing + "\n\n")
				continue
			}
			sb.WriteString(truncateBlock(s.env.FS.ReadFile(path), s.env.Layout.OtherFilesLimit))
			sb.WriteString("\n")
		}
		return sb.String()
	})
}

// SystemFilesInfo reports single-line identifier files, the uname
// identification and the additional system files.
func (s *System) SystemFilesInfo(_ context.Context) string {
	const header = "\n=== System Files Information (Important Device Fingerprints) ===\n\n"
	return guard(s.logger(), SystemName, "SystemFilesInfo", header, func() string {
		var sb strings.Builder
		sb.WriteString(header)
		sb.WriteString(s.identifierFiles())
		sb.WriteString(s.unameInfo())
		sb.WriteString(s.additionalFiles())
		return sb.String()
	})
}

func (s *System) identifierFiles() string {
	var sb strings.Builder
	for _, path := range s.env.Layout.SystemFiles {
		s.logger().Debug("reading system file", "path", path)
		sb.WriteString("=== " + path + " ===\n")

		switch {
		case !s.env.FS.Exists(path):
			sb.WriteString(buildprop.NoticeMissing + "\n")
		default:
			content, err := s.env.FS.Read(path)
			if err != nil || content == "" {
				if err != nil {
					s.logger().Error("failed to read system file", "path", path, "error", err)
				}
				sb.WriteString("File exists but could not be read\n")
			} else {
				sb.WriteString("Content: " + stripNewlines(content) + "\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *System) unameInfo() string {
	var sb strings.Builder
	sb.WriteString("=== uname system call (Android 11+ fallback) ===\n")

	u, err := s.env.Uname()
	if err != nil {
		s.logger().Error("uname failed", "error", err)
		sb.WriteString("uname system call failed, error: " + err.Error() + "\n")
	} else {
		sb.WriteString("sysname: " + u.Sysname + "\n")
		sb.WriteString("nodename: " + u.Nodename + "\n")
		sb.WriteString("release: " + u.Release + "\n")
		sb.WriteString("version: " + u.Version + "\n")
		sb.WriteString("machine: " + u.Machine + "\n")
		sb.WriteString("domainname: " + u.Domainname + "\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

func (s *System) additionalFiles() string {
	var sb strings.Builder
	sb.WriteString("=== Additional System Information ===\n")
	for _, path := range s.env.Layout.AdditionalFiles {
		s.logger().Debug("reading additional file", "path", path)
		if !s.env.FS.Exists(path) {
			continue
		}
		sb.WriteString("--- " + path + " ---\n")
		sb.WriteString(truncateBlock(s.env.FS.ReadFile(path), s.env.Layout.AdditionalFilesLimit))
		sb.WriteString("\n")
	}
	return sb.String()
}
