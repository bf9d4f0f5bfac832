// Package buildprop parses Android build.prop files.
//
// A build.prop file is line-oriented "key=value" text. Comment lines start
// with '#'. Parse renders the allow-listed keys of one file as a report
// fragment; Properties exposes every key for property lookups.
package buildprop

import (
	"slices"
	"strings"
)

// DefaultKeys is the allow-list of properties reported for each build.prop.
var DefaultKeys = []string{
	"ro.build.fingerprint",
	"ro.build.display.id",
	"ro.build.version.release",
	"ro.build.version.sdk",
	"ro.build.version.codename",
	"ro.build.version.incremental",
	"ro.build.date",
	"ro.build.date.utc",
	"ro.build.type",
	"ro.build.user",
	"ro.build.host",
	"ro.build.tags",
	"ro.product.model",
	"ro.product.brand",
	"ro.product.name",
	"ro.product.device",
	"ro.product.manufacturer",
	"ro.product.cpu.abi",
	"ro.product.cpu.abilist",
	"ro.product.locale",
	"ro.board.platform",
	"ro.build.id",
	"ro.build.version.security_patch",
	"ro.build.version.base_os",
	"ro.build.version.preview_sdk",
	"ro.build.version.min_supported_target_sdk",
}

// DefaultFiles are the build.prop locations read by the kernel files report.
var DefaultFiles = []string{
	"/system/build.prop",
	"/odm/etc/build.prop",
	"/product/build.prop",
	"/vendor/build.prop",
}

// Notices written in place of property lines.
const (
	NoticeEmpty      = "File is empty or could not be read"
	NoticeNoProperty = "No key properties found"
	NoticeMissing    = "File does not exist"
)

// Property is a single key=value line.
type Property struct {
	Key   string
	Value string
}

// String returns the property as it appeared in the source.
func (p Property) String() string {
	return p.Key + "=" + p.Value
}

// Properties returns every property in content in source order.
// Blank lines, comments and lines without '=' are skipped. Keys that
// appear more than once are returned once per occurrence.
func Properties(content string) []Property {
	var props []Property
	for _, line := range strings.Split(content, "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props = append(props, Property{Key: key, Value: value})
	}
	return props
}

// Parse renders the allow-listed properties of one build.prop file.
//
// The fragment starts with "=== source ===" and always ends with a blank
// line. Matching lines are emitted verbatim in source order, duplicates
// included. A nil keys slice selects DefaultKeys.
func Parse(content, source string, keys []string) string {
	if keys == nil {
		keys = DefaultKeys
	}

	var sb strings.Builder
	sb.WriteString(Header(source))

	if content == "" {
		sb.WriteString(NoticeEmpty + "\n\n")
		return sb.String()
	}

	found := 0
	for _, p := range Properties(content) {
		if !slices.Contains(keys, p.Key) {
			continue
		}
		sb.WriteString(p.String())
		sb.WriteString("\n")
		found++
	}
	if found == 0 {
		sb.WriteString(NoticeNoProperty + "\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

// Missing renders the fragment for a build.prop file that does not exist.
func Missing(source string) string {
	return Header(source) + NoticeMissing + "\n\n"
}

// Header returns the section header line for source.
func Header(source string) string {
	return "=== " + source + " ===\n"
}
