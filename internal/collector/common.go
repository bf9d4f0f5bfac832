package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/devfingerprint/internal/probe"
)

// CommonName is the name of the common device information collector.
const CommonName = "CommonCollector"

// cpuInfoFields select the /proc/cpuinfo lines that are reported.
var cpuInfoFields = []string{
	"processor",
	"model name",
	"Hardware",
	"CPU architecture",
	"CPU implementer",
	"CPU variant",
	"CPU part",
	"CPU revision",
}

// memInfoFields select the /proc/meminfo lines that are reported.
var memInfoFields = []string{
	"MemTotal",
	"MemFree",
	"MemAvailable",
	"Buffers",
	"Cached",
	"SwapTotal",
	"SwapFree",
}

// labeledProperty is one "Label: value" line backed by a property key.
type labeledProperty struct {
	label string
	key   string
}

var deviceProperties = []labeledProperty{
	{"Device Model", "ro.product.model"},
	{"Device Brand", "ro.product.brand"},
	{"Android Version", "ro.build.version.release"},
	{"API Level", "ro.build.version.sdk"},
	{"Manufacturer", "ro.product.manufacturer"},
	{"Product Name", "ro.product.name"},
	{"Device Name", "ro.product.device"},
	{"Build Fingerprint", "ro.build.fingerprint"},
	{"Build ID", "ro.build.id"},
	{"Build Type", "ro.build.type"},
	{"Build Tags", "ro.build.tags"},
	{"Build Date", "ro.build.date"},
	{"Security Patch", "ro.build.version.security_patch"},
}

var networkProperties = []labeledProperty{
	{"WiFi MAC Address", "ro.wifi.channels"},
	{"Bluetooth Address", "ro.bluetooth.address"},
	{"Network Type", "ro.telephony.default_network"},
}

var hardwareProperties = []labeledProperty{
	{"Board Platform", "ro.board.platform"},
	{"CPU ABI", "ro.product.cpu.abi"},
	{"CPU ABI List", "ro.product.cpu.abilist"},
	{"Hardware", "ro.hardware"},
	{"Bootloader", "ro.bootloader"},
}

var appProperties = []labeledProperty{
	{"Package Name", "java.class.path"},
	{"User Agent", "http.agent"},
	{"File Encoding", "file.encoding"},
	{"OS Name", "os.name"},
	{"OS Version", "os.version"},
	{"OS Arch", "os.arch"},
	{"Java Version", "java.version"},
	{"Java Vendor", "java.vendor"},
}

// Common collects device, network, hardware and application information.
type Common struct {
	env Env
}

// NewCommon creates a common device information collector.
func NewCommon(env Env) *Common {
	return &Common{env: env.withDefaults()}
}

// Name implements Collector.
func (c *Common) Name() string {
	return CommonName
}

func (c *Common) logger() *slog.Logger {
	return c.env.Logger
}

// Collect implements Collector.
func (c *Common) Collect(ctx context.Context) (out string) {
	var sb strings.Builder
	sb.WriteString("=== Common Device Information Collection ===\n\n")

	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("collector panicked", "collector", CommonName, "error", r)
			out = sb.String() + fmt.Sprintf("Error: %v\n", r)
		}
	}()

	for _, res := range c.Steps(ctx) {
		sb.WriteString(res)
	}
	return sb.String()
}

// Steps returns the rendered output of each sub-step in order.
func (c *Common) Steps(ctx context.Context) []string {
	return []string{
		section(ctx, c.logger(), CommonName, "Device Information", "device info", c.deviceInfo),
		section(ctx, c.logger(), CommonName, "Network Information", "network info", c.networkInfo),
		section(ctx, c.logger(), CommonName, "Hardware Information", "hardware info", c.hardwareInfo),
		section(ctx, c.logger(), CommonName, "Application Information", "app info", c.appInfo),
	}
}

func (c *Common) writeBuildProperties(sb *strings.Builder, props []labeledProperty) {
	for _, p := range props {
		sb.WriteString(p.label + ": " + probe.BuildProperty(c.env.BuildProps, p.key) + "\n")
	}
}

func (c *Common) deviceInfo(_ context.Context, sb *strings.Builder) error {
	c.writeBuildProperties(sb, deviceProperties)
	return nil
}

func (c *Common) networkInfo(_ context.Context, sb *strings.Builder) error {
	c.writeBuildProperties(sb, networkProperties)

	for _, iface := range c.env.Layout.NetworkInterfaces {
		path := "/sys/class/net/" + iface + "/address"
		if !c.env.FS.Exists(path) {
			continue
		}
		mac := strings.TrimRight(c.env.FS.ReadFile(path), "\r\n")
		if mac != "" {
			sb.WriteString(strings.ToUpper(iface) + " MAC: " + mac + "\n")
		}
	}
	return nil
}

func (c *Common) hardwareInfo(ctx context.Context, sb *strings.Builder) error {
	sb.WriteString(c.procInfo("CPU", "/proc/cpuinfo", cpuInfoFields))
	sb.WriteString(c.procInfo("Memory", "/proc/meminfo", memInfoFields))
	sb.WriteString(c.storageInfo(ctx))
	c.writeBuildProperties(sb, hardwareProperties)
	return nil
}

// procInfo renders the filtered lines of a /proc file.
func (c *Common) procInfo(kind, path string, fields []string) string {
	var sb strings.Builder
	sb.WriteString("=== " + kind + " Information ===\n")

	if !c.env.FS.Exists(path) {
		sb.WriteString(kind + " info file not accessible\n\n")
		return sb.String()
	}

	content, err := c.env.FS.Read(path)
	if err != nil {
		c.logger().Error("failed to read proc file", "path", path, "error", err)
		sb.WriteString(fmt.Sprintf("Error reading %s info: %v\n\n", strings.ToLower(kind), err))
		return sb.String()
	}
	for _, line := range filterLines(content, fields) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// storageInfo renders internal and external storage usage.
func (c *Common) storageInfo(ctx context.Context) string {
	var sb strings.Builder
	sb.WriteString("=== Storage Information ===\n")

	volumes := []struct {
		label string
		path  string
	}{
		{"Internal Storage", c.env.Layout.InternalStoragePath},
		{"External Storage", c.env.Layout.StoragePath},
	}
	for _, v := range volumes {
		usage, err := c.env.Disk.Usage(ctx, c.env.FS.Path(v.path))
		if err != nil {
			c.logger().Error("failed to read storage info", "path", v.path, "error", err)
			sb.WriteString(fmt.Sprintf("Error reading storage info: %v\n", err))
			continue
		}
		sb.WriteString(v.label + ":\n")
		sb.WriteString(fmt.Sprintf("  Total: %d bytes\n", usage.Total))
		sb.WriteString(fmt.Sprintf("  Free: %d bytes\n", usage.Free))
		sb.WriteString(fmt.Sprintf("  Available: %d bytes\n", usage.Available))
	}

	sb.WriteString("\n")
	return sb.String()
}

func (c *Common) appInfo(_ context.Context, sb *strings.Builder) error {
	for _, p := range appProperties {
		sb.WriteString(p.label + ": " + probe.RuntimeProperty(c.env.RuntimeProps, p.key) + "\n")
	}
	return nil
}
