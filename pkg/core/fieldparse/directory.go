package fieldparse

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

// Directory is a read-only snapshot of the volunteer roster used to resolve
// free-text names into volunteer identities.
type Directory struct {
	volunteers []model.Volunteer
	folded     []string
	caser      cases.Caser
}

// NewDirectory builds a directory ordered by volunteer id
func NewDirectory(volunteers []model.Volunteer) *Directory {
	sorted := make([]model.Volunteer, len(volunteers))
	copy(sorted, volunteers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	d := &Directory{
		volunteers: sorted,
		folded:     make([]string, len(sorted)),
		caser:      cases.Fold(),
	}
	for i, v := range sorted {
		d.folded[i] = d.caser.String(v.Name)
	}
	return d
}

// Len returns the number of volunteers in the directory
func (d *Directory) Len() int {
	return len(d.volunteers)
}

// ResolveVolunteer returns the first volunteer whose name contains the
// candidate, ignoring case. Duplicate matches are not disambiguated: the
// volunteer with the lowest id wins.
func (d *Directory) ResolveVolunteer(candidate string) *model.Volunteer {
	candidate = strings.TrimSpace(candidate)
	if d == nil || candidate == "" {
		return nil
	}

	needle := d.caser.String(candidate)
	for i, name := range d.folded {
		if strings.Contains(name, needle) {
			v := d.volunteers[i]
			return &v
		}
	}
	return nil
}

// ResolveAll resolves each candidate independently; unresolved entries are nil
func (d *Directory) ResolveAll(candidates []string) []*model.Volunteer {
	resolved := make([]*model.Volunteer, len(candidates))
	for i, c := range candidates {
		resolved[i] = d.ResolveVolunteer(c)
	}
	return resolved
}
