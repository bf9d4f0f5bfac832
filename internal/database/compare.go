package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/devfingerprint/internal/model"
)

// Diff is the section-level difference between two reports of the same entry.
type Diff struct {
	// Entry is the entry point both reports were collected for.
	Entry model.Entry `json:"entry"`

	// Previous describes the older report.
	Previous Snapshot `json:"previous"`

	// Current describes the newer report.
	Current Snapshot `json:"current"`

	// Added lists sections only present in the current report.
	Added []string `json:"added,omitempty"`

	// Removed lists sections only present in the previous report.
	Removed []string `json:"removed,omitempty"`

	// Changed lists sections whose body digest differs.
	Changed []SectionChange `json:"changed,omitempty"`

	// Unchanged is the number of sections with identical bodies.
	Unchanged int `json:"unchanged"`
}

// Snapshot identifies one side of a comparison.
type Snapshot struct {
	CollectedAt time.Time `json:"collected_at"`
	Hostname    string    `json:"hostname,omitempty"`
	Digest      string    `json:"digest"`
}

// SectionChange holds the line-level changes of one section.
type SectionChange struct {
	// Key identifies the section, e.g. "CommonCollector/Common".
	Key string `json:"key"`

	// AddedLines are lines only present in the current body.
	AddedLines []string `json:"added_lines,omitempty"`

	// RemovedLines are lines only present in the previous body.
	RemovedLines []string `json:"removed_lines,omitempty"`
}

// HasChanges returns true if the reports differ in any section.
func (d *Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// Compare computes the difference between an older and a newer report.
// Sections are matched by collector and title; repeated keys are matched in
// order of appearance.
func Compare(previous, current *model.Report) *Diff {
	diff := &Diff{
		Entry:    current.Entry,
		Previous: snapshotOf(previous),
		Current:  snapshotOf(current),
	}

	prev := keyedSections(previous)
	curr := keyedSections(current)

	prevByKey := make(map[string]model.Section, len(prev))
	for _, ks := range prev {
		prevByKey[ks.key] = ks.section
	}
	currKeys := make(map[string]struct{}, len(curr))

	for _, ks := range curr {
		currKeys[ks.key] = struct{}{}
		old, ok := prevByKey[ks.key]
		if !ok {
			diff.Added = append(diff.Added, ks.key)
			continue
		}
		if Digest(old.Body) == Digest(ks.section.Body) {
			diff.Unchanged++
			continue
		}
		added, removed := lineDiff(old.Body, ks.section.Body)
		diff.Changed = append(diff.Changed, SectionChange{
			Key:          ks.key,
			AddedLines:   added,
			RemovedLines: removed,
		})
	}

	for _, ks := range prev {
		if _, ok := currKeys[ks.key]; !ok {
			diff.Removed = append(diff.Removed, ks.key)
		}
	}

	return diff
}

// snapshotOf summarizes a report for a Diff.
func snapshotOf(r *model.Report) Snapshot {
	return Snapshot{
		CollectedAt: r.CollectedAt,
		Hostname:    r.Hostname,
		Digest:      Digest(r.Text()),
	}
}

type keyedSection struct {
	key     string
	section model.Section
}

// keyedSections assigns each section a stable key. The header of the
// comprehensive report is treated as its own section.
func keyedSections(r *model.Report) []keyedSection {
	seen := make(map[string]int)
	out := make([]keyedSection, 0, len(r.Sections)+1)

	if r.Header != "" {
		out = append(out, keyedSection{key: "header", section: model.Section{Body: r.Header}})
	}

	for _, s := range r.Sections {
		key := s.Collector
		if s.Title != "" {
			key += "/" + s.Title
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		out = append(out, keyedSection{key: key, section: s})
	}
	return out
}

// lineDiff returns the lines only in b (added) and only in a (removed).
// Repeated lines are counted, so a duplicated line that appears once more
// in b is reported as added once.
func lineDiff(a, b string) (added, removed []string) {
	aLines := splitLines(a)
	bLines := splitLines(b)

	counts := make(map[string]int, len(aLines))
	for _, l := range aLines {
		counts[l]++
	}
	for _, l := range bLines {
		if counts[l] > 0 {
			counts[l]--
			continue
		}
		added = append(added, l)
	}

	counts = make(map[string]int, len(bLines))
	for _, l := range bLines {
		counts[l]++
	}
	for _, l := range aLines {
		if counts[l] > 0 {
			counts[l]--
			continue
		}
		removed = append(removed, l)
	}
	return added, removed
}

// splitLines splits s into non-empty lines.
func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
