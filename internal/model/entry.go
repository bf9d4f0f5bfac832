package model

import (
	"fmt"
	"strings"
)

// Entry identifies a report entry point. Each entry maps to exactly one
// collector or collector method, except EntryAll which concatenates the
// system and common collectors.
type Entry string

// Report entry points.
const (
	// EntryFileSystem reports filesystem statistics gathered three ways.
	EntryFileSystem Entry = "filesystem"
	// EntryDRM reports the Widevine device-unique identifier.
	EntryDRM Entry = "drm"
	// EntryKernel reports build.prop files and kernel/system text files.
	EntryKernel Entry = "kernel"
	// EntrySystemFiles reports single-line identifier files and uname.
	EntrySystemFiles Entry = "system-files"
	// EntryCommon reports common device, network, hardware and app information.
	EntryCommon Entry = "common"
	// EntryNetwork reports MAC addresses obtained through several methods.
	EntryNetwork Entry = "network"
	// EntryAll is the comprehensive report (system + common).
	EntryAll Entry = "all"
)

// AllEntries returns every entry point in display order.
func AllEntries() []Entry {
	return []Entry{
		EntryFileSystem,
		EntryDRM,
		EntryKernel,
		EntrySystemFiles,
		EntryCommon,
		EntryNetwork,
		EntryAll,
	}
}

// String returns the entry name.
func (e Entry) String() string {
	return string(e)
}

// IsValid returns true if e is a known entry point.
func (e Entry) IsValid() bool {
	for _, known := range AllEntries() {
		if e == known {
			return true
		}
	}
	return false
}

// ParseEntry converts a user-supplied name into an Entry.
// Matching is case-insensitive and surrounding whitespace is ignored.
func ParseEntry(s string) (Entry, error) {
	e := Entry(strings.ToLower(strings.TrimSpace(s)))
	if !e.IsValid() {
		names := make([]string, 0, len(AllEntries()))
		for _, known := range AllEntries() {
			names = append(names, known.String())
		}
		return "", fmt.Errorf("unknown entry %q (valid: %s)", s, strings.Join(names, ", "))
	}
	return e, nil
}
