package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"strings"

	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/nao1215/devfingerprint/internal/probe"
)

// NetworkName is the name of the MAC address collector.
const NetworkName = "NetworkCollector"

// defaultMAC is reported by Android to apps that may not see the real
// hardware address.
const defaultMAC = "02:00:00:00:00:00"

// HardwareInterface is a network interface with a hardware address.
type HardwareInterface struct {
	Name string
	MAC  string
}

// InterfaceSource enumerates network interfaces.
type InterfaceSource interface {
	// ByName returns the hardware address of the named interface.
	ByName(name string) (string, error)
	// All returns every interface in enumeration order.
	All(ctx context.Context) ([]HardwareInterface, error)
}

// SystemInterfaces reads interfaces from the running kernel. Single lookups
// go through the net package; enumeration goes through gopsutil.
type SystemInterfaces struct{}

// ByName implements InterfaceSource.
func (SystemInterfaces) ByName(name string) (string, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return "", err
	}
	return iface.HardwareAddr.String(), nil
}

// All implements InterfaceSource.
func (SystemInterfaces) All(ctx context.Context) ([]HardwareInterface, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]HardwareInterface, 0, len(stats))
	for _, st := range stats {
		out = append(out, HardwareInterface{Name: st.Name, MAC: st.HardwareAddr})
	}
	return out, nil
}

// sysfsNetDir lists one directory per network interface.
const sysfsNetDir = "/sys/class/net"

// SysfsInterfaces reads interfaces from the sysfs tree of a filesystem
// image, so a sysroot report never mixes in the host's interfaces.
type SysfsInterfaces struct {
	FS probe.FS
}

// ByName implements InterfaceSource.
func (s SysfsInterfaces) ByName(name string) (string, error) {
	path := sysfsNetDir + "/" + name + "/address"
	if !s.FS.Exists(path) {
		return "", fmt.Errorf("no such network interface: %s", name)
	}
	content, err := s.FS.Read(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// All implements InterfaceSource.
func (s SysfsInterfaces) All(_ context.Context) ([]HardwareInterface, error) {
	names, err := s.FS.ReadDir(sysfsNetDir)
	if err != nil {
		return nil, err
	}
	out := make([]HardwareInterface, 0, len(names))
	for _, name := range names {
		content, err := s.FS.Read(sysfsNetDir + "/" + name + "/address")
		if err != nil {
			continue
		}
		out = append(out, HardwareInterface{Name: name, MAC: strings.TrimSpace(content)})
	}
	return out, nil
}

// Network reports the MAC address of the Wi-Fi interface obtained through
// the sysfs address file, a direct interface lookup and full interface
// enumeration, then compares the results.
type Network struct {
	env Env
}

// NewNetwork creates a MAC address collector.
func NewNetwork(env Env) *Network {
	return &Network{env: env.withDefaults()}
}

// Name implements Collector.
func (n *Network) Name() string {
	return NetworkName
}

func (n *Network) logger() *slog.Logger {
	return n.env.Logger
}

// macResult is one method's outcome.
type macResult struct {
	mac string
	err error
}

func (r macResult) String() string {
	if r.err != nil {
		return "Unable to retrieve: " + r.err.Error()
	}
	return r.mac
}

// Collect implements Collector.
func (n *Network) Collect(ctx context.Context) string {
	iface := n.env.Layout.WiFiInterface
	if iface == "" {
		iface = "wlan0"
	}

	var sb strings.Builder
	sb.WriteString("=== MAC Address Information ===\n\n")

	var sysfs, lookup, enumerated macResult
	var all []HardwareInterface

	sb.WriteString(runStep(ctx, n.logger(), NetworkName, "sysfs address", func(_ context.Context, w *strings.Builder) error {
		sysfs = n.sysfsMAC(iface)
		fmt.Fprintf(w, "Method 1 (sysfs %s): %s\n", iface, sysfs)
		return nil
	}).Render())

	sb.WriteString(runStep(ctx, n.logger(), NetworkName, "interface lookup", func(_ context.Context, w *strings.Builder) error {
		lookup = n.lookupMAC(iface)
		fmt.Fprintf(w, "Method 2 (interface %s): %s\n", iface, lookup)
		return nil
	}).Render())

	sb.WriteString(runStep(ctx, n.logger(), NetworkName, "interface enumeration", func(ctx context.Context, w *strings.Builder) error {
		w.WriteString("Method 3 (all interfaces):\n")
		var err error
		all, err = n.enumerate(ctx)
		if err != nil {
			enumerated.err = err
			w.WriteString("Unable to retrieve: " + err.Error() + "\n")
			return nil
		}
		if len(all) == 0 {
			enumerated.err = errors.New("no network interfaces with MAC addresses found")
			w.WriteString("Unable to retrieve (no network interfaces with MAC addresses found)\n")
			return nil
		}
		enumerated.err = fmt.Errorf("%s not enumerated", iface)
		for _, hw := range all {
			w.WriteString(hw.Name + ": " + hw.MAC + "\n")
			if hw.Name == iface {
				enumerated = macResult{mac: hw.MAC}
			}
		}
		return nil
	}).Render())

	sb.WriteString("\nComparison: " + compareMACs(sysfs, lookup, enumerated) + "\n\n")
	return sb.String()
}

func (n *Network) sysfsMAC(iface string) macResult {
	path := sysfsNetDir + "/" + iface + "/address"
	content, err := n.env.FS.Read(path)
	if err != nil {
		return macResult{err: err}
	}
	return normalizeMAC(strings.TrimSpace(content))
}

func (n *Network) lookupMAC(iface string) macResult {
	mac, err := n.env.Interfaces.ByName(iface)
	if err != nil {
		return macResult{err: err}
	}
	return normalizeMAC(mac)
}

// enumerate returns interfaces carrying a 6-byte hardware address.
func (n *Network) enumerate(ctx context.Context) ([]HardwareInterface, error) {
	ifaces, err := n.env.Interfaces.All(ctx)
	if err != nil {
		n.logger().Error("failed to enumerate interfaces", "error", err)
		return nil, err
	}
	var out []HardwareInterface
	for _, hw := range ifaces {
		addr, err := net.ParseMAC(hw.MAC)
		if err != nil || len(addr) != 6 {
			continue
		}
		out = append(out, HardwareInterface{Name: hw.Name, MAC: addr.String()})
	}
	return out, nil
}

// normalizeMAC validates and lowercases a MAC address. The Android
// placeholder address and the empty string count as failures.
func normalizeMAC(s string) macResult {
	if s == "" {
		return macResult{err: errors.New("hardware address is empty")}
	}
	addr, err := net.ParseMAC(s)
	if err != nil {
		return macResult{err: err}
	}
	mac := addr.String()
	if mac == defaultMAC {
		return macResult{err: errors.New("default address returned")}
	}
	return macResult{mac: mac}
}

// compareMACs reports whether the successful methods agree.
func compareMACs(results ...macResult) string {
	var valid []string
	for _, r := range results {
		if r.err == nil && r.mac != "" {
			valid = append(valid, r.mac)
		}
	}

	switch len(valid) {
	case 0:
		return "All methods failed to retrieve MAC address"
	case 1:
		return "Only one method succeeded, unable to compare"
	}

	var unique []string
	for _, v := range valid {
		if !slices.Contains(unique, v) {
			unique = append(unique, v)
		}
	}
	if len(unique) == 1 {
		return "All methods retrieved consistent MAC address"
	}
	return "Different MAC addresses detected!\nDifferent values:\n" + strings.Join(unique, "\n")
}
