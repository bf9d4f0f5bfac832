package collector

import (
	"log/slog"

	"github.com/nao1215/devfingerprint/internal/buildprop"
	"github.com/nao1215/devfingerprint/internal/drm"
	"github.com/nao1215/devfingerprint/internal/probe"
)

// Default limits for the truncated file groups.
const (
	DefaultOtherFilesLimit      = 1000
	DefaultAdditionalFilesLimit = 500
)

// Layout lists the paths and limits a collection pass uses.
type Layout struct {
	// StoragePath is the shared-storage mount examined by the filesystem
	// report and reported as external storage.
	StoragePath string
	// InternalStoragePath is reported as internal storage.
	InternalStoragePath string

	// BuildPropFiles are parsed by the kernel files report.
	BuildPropFiles []string
	// BuildPropKeys is the parser allow-list.
	BuildPropKeys []string

	// OtherFiles are dumped after the build.prop files.
	OtherFiles []string
	// OtherFilesLimit truncates each OtherFiles entry, in characters.
	OtherFilesLimit int

	// SystemFiles are single-line identifier files.
	SystemFiles []string

	// AdditionalFiles are dumped after uname when present.
	AdditionalFiles []string
	// AdditionalFilesLimit truncates each AdditionalFiles entry.
	AdditionalFilesLimit int

	// NetworkInterfaces are the interfaces whose sysfs address the common
	// report shows.
	NetworkInterfaces []string
	// WiFiInterface is the interface compared by the network report.
	WiFiInterface string
}

// DefaultLayout returns the paths of a stock Android device.
func DefaultLayout() Layout {
	return Layout{
		StoragePath:         "/storage/emulated/0",
		InternalStoragePath: "/data",
		BuildPropFiles:      append([]string(nil), buildprop.DefaultFiles...),
		BuildPropKeys:       append([]string(nil), buildprop.DefaultKeys...),
		OtherFiles: []string{
			"/proc/version",
			"/proc/cpuinfo",
			"/proc/meminfo",
			"/system/etc/prop.default",
		},
		OtherFilesLimit: DefaultOtherFilesLimit,
		SystemFiles: []string{
			"/proc/sys/kernel/random/boot_id",
			"/proc/sys/kernel/random/uuid",
			"/sys/block/mmcblk0/device/cid",
			"/sys/devices/soc0/serial_number",
			"/proc/misc",
			"/proc/version",
		},
		AdditionalFiles: []string{
			"/proc/cmdline",
			"/proc/cpuinfo",
			"/proc/meminfo",
			"/sys/class/dmi/id/product_uuid",
			"/sys/class/dmi/id/board_serial",
			"/sys/class/dmi/id/chassis_serial",
		},
		AdditionalFilesLimit: DefaultAdditionalFilesLimit,
		NetworkInterfaces:    []string{"wlan0", "eth0"},
		WiFiInterface:        "wlan0",
	}
}

// Env is everything a collector reads from. Zero fields are replaced by
// the live-system defaults when a collector is constructed.
type Env struct {
	FS           probe.FS
	BuildProps   probe.PropertyStore
	RuntimeProps probe.PropertyStore
	Disk         probe.DiskUsager
	Runner       probe.Runner
	Statfs       probe.StatfsFunc
	Uname        probe.UnameFunc
	DRM          drm.Provider
	Interfaces   InterfaceSource
	Layout       Layout
	Logger       *slog.Logger
}

// NewEnv returns an Env for the live system, optionally rooted at a
// sysroot. Build properties come from getprop and fall back to the
// build.prop files under the root. With a sysroot, network interfaces
// are read from the image's sysfs instead of the running kernel.
func NewEnv(root string, logger *slog.Logger) Env {
	return NewEnvWithLayout(root, DefaultLayout(), logger)
}

// NewEnvWithLayout is NewEnv with custom paths and limits.
func NewEnvWithLayout(root string, layout Layout, logger *slog.Logger) Env {
	if logger == nil {
		logger = slog.Default()
	}
	fs := probe.NewFS(root, logger)

	var props probe.PropertyStore = probe.NewBuildPropStore(fs, layout.BuildPropFiles)
	var ifaces InterfaceSource = SysfsInterfaces{FS: fs}
	if root == "" {
		props = probe.ChainStore{probe.GetpropStore{}, props}
		ifaces = SystemInterfaces{}
	}

	return Env{
		FS:           fs,
		BuildProps:   props,
		RuntimeProps: probe.NewRuntimeStore(nil),
		Interfaces:   ifaces,
		Layout:       layout,
		Logger:       logger,
	}.withDefaults()
}

// withDefaults fills unset fields.
func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.FS.Logger == nil {
		e.FS.Logger = e.Logger
	}
	if e.Disk == nil {
		e.Disk = probe.GopsutilDisk{}
	}
	if e.Runner == nil {
		e.Runner = probe.ShellRunner{}
	}
	if e.Statfs == nil {
		e.Statfs = probe.Statfs
	}
	if e.Uname == nil {
		e.Uname = probe.Uname
	}
	if e.DRM == nil {
		e.DRM = drm.UnavailableProvider{}
	}
	if e.Interfaces == nil {
		e.Interfaces = SystemInterfaces{}
	}
	if e.Layout.StoragePath == "" && e.Layout.BuildPropFiles == nil {
		e.Layout = DefaultLayout()
	}
	if e.Layout.OtherFilesLimit <= 0 {
		e.Layout.OtherFilesLimit = DefaultOtherFilesLimit
	}
	if e.Layout.AdditionalFilesLimit <= 0 {
		e.Layout.AdditionalFilesLimit = DefaultAdditionalFilesLimit
	}
	return e
}
