package inventory

import "sort"

// Classification partitions stored branches against the live branch set.
type Classification struct {
	// Current branches have snapshots and still exist in the repository.
	Current []string
	// Obsolete branches have snapshots but no longer exist.
	Obsolete []string
}

// Classify splits stored branch names by membership in the live set. Names
// are compared verbatim, with no casing or whitespace normalization, and
// each result slice comes back sorted.
func Classify(stored, live []string) Classification {
	liveSet := make(map[string]bool, len(live))
	for _, name := range live {
		liveSet[name] = true
	}

	var c Classification
	for _, name := range stored {
		if liveSet[name] {
			c.Current = append(c.Current, name)
		} else {
			c.Obsolete = append(c.Obsolete, name)
		}
	}
	sort.Strings(c.Current)
	sort.Strings(c.Obsolete)
	return c
}

// Found reports whether the named branch has stored snapshots, regardless of
// whether it still exists in the repository. Targeted cleanup uses this to
// distinguish "nothing stored" from a deletable candidate.
func Found(stored []string, name string) bool {
	for _, branch := range stored {
		if branch == name {
			return true
		}
	}
	return false
}
