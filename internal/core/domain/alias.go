package domain

import "strings"

// ApplyAlias rewrites id when it equals an alias key or starts with key + "/".
// The longest matching key wins.
func ApplyAlias(alias map[string]string, id string) (string, bool) {
	best := ""
	found := false
	for k := range alias {
		if (id == k || strings.HasPrefix(id, k+"/")) && (!found || len(k) > len(best)) {
			best, found = k, true
		}
	}
	if !found {
		return id, false
	}
	return alias[best] + strings.TrimPrefix(id, best), true
}
