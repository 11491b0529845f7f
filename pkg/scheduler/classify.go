package scheduler

import "strings"

// Discipline is the family a service belongs to, read from its name
type Discipline int

const (
	DisciplineNone Discipline = iota
	DisciplineMani
	DisciplinePedi
)

func (d Discipline) String() string {
	switch d {
	case DisciplineMani:
		return "mani"
	case DisciplinePedi:
		return "pedi"
	default:
		return "none"
	}
}

// IsRemoval reports whether a service or add-on name denotes a removal.
// Name matching is a business rule the catalog relies on; names that merely
// contain the word are misclassified.
func IsRemoval(name string) bool {
	return strings.Contains(strings.ToLower(name), "removal")
}

// DisciplineOf classifies a name as manicure or pedicure work. A name that
// mentions both has no single discipline.
func DisciplineOf(name string) Discipline {
	n := strings.ToLower(name)
	mani := strings.Contains(n, "mani")
	pedi := strings.Contains(n, "pedi")
	switch {
	case mani && !pedi:
		return DisciplineMani
	case pedi && !mani:
		return DisciplinePedi
	default:
		return DisciplineNone
	}
}
