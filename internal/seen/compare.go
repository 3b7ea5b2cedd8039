// Package seen compares successive snapshots of the vacancy list.
package seen

import (
	"fmt"
	"strings"

	"github.com/jimezsa/vacancyctl/internal/models"
)

// DiffStats counts how a snapshot differs from the previous one.
type DiffStats struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// Empty reports whether nothing was added, removed or changed.
func (s DiffStats) Empty() bool {
	return s.Added == 0 && s.Removed == 0 && s.Changed == 0
}

func (s DiffStats) String() string {
	return fmt.Sprintf("+%d new, -%d removed, ~%d changed", s.Added, s.Removed, s.Changed)
}

// Normalize folds case and whitespace so cosmetic edits do not count as changes.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Fingerprint is the content key of a vacancy. Two snapshots of the same id
// with different fingerprints were edited in between.
func Fingerprint(v models.Vacancy) string {
	parts := []string{
		Normalize(v.Title),
		Normalize(v.CompanyName),
		Normalize(v.CompanyAddress),
		strings.TrimSpace(v.CompanyLogo),
		Normalize(v.Description),
		string(v.Status),
		strings.TrimSpace(v.HHID),
	}
	if v.UpdatedAt != nil {
		parts = append(parts, v.UpdatedAt.UTC().Format("2006-01-02T15:04:05"))
	}
	return strings.Join(parts, "\x1f")
}

// Diff returns the vacancies in current whose id was not in previous.
// Duplicate ids keep their first occurrence.
func Diff(current []models.Vacancy, previous []models.Vacancy) ([]models.Vacancy, DiffStats) {
	var stats DiffStats

	before := make(map[int64]string, len(previous))
	for _, v := range previous {
		if _, exists := before[v.ID]; exists {
			continue
		}
		before[v.ID] = Fingerprint(v)
	}

	present := make(map[int64]struct{}, len(current))
	added := make([]models.Vacancy, 0)
	for _, v := range current {
		if _, exists := present[v.ID]; exists {
			continue
		}
		present[v.ID] = struct{}{}

		fingerprint, ok := before[v.ID]
		switch {
		case !ok:
			added = append(added, v)
			stats.Added++
		case fingerprint != Fingerprint(v):
			stats.Changed++
		default:
			stats.Unchanged++
		}
	}

	for id := range before {
		if _, ok := present[id]; !ok {
			stats.Removed++
		}
	}
	return added, stats
}
