package layer

import "sort"

// Overlay copies every entry of src into dst, replacing existing keys.
func Overlay(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, val := range src {
		dst[key] = val
	}
	return dst
}

// DiffMaps returns the keys that differ between two maps, each list sorted.
// Returns added, modified, and removed keys.
func DiffMaps(old, new map[string]string) (added, modified, removed []string) {
	for key, newVal := range new {
		if oldVal, exists := old[key]; exists {
			if oldVal != newVal {
				modified = append(modified, key)
			}
		} else {
			added = append(added, key)
		}
	}

	for key := range old {
		if _, exists := new[key]; !exists {
			removed = append(removed, key)
		}
	}

	sort.Strings(added)
	sort.Strings(modified)
	sort.Strings(removed)
	return added, modified, removed
}
