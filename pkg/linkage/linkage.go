package linkage

import (
	"sort"
	"strings"
)

const keySeparator = "::"

// linkKey builds the storage key for one driver-local account id.
func linkKey(driver, localID string) string {
	return driver + keySeparator + strings.TrimSpace(localID)
}

// splitKey is the inverse of linkKey.
func splitKey(key string) (driver, localID string, ok bool) {
	parts := strings.SplitN(key, keySeparator, 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// keysFor converts a login result set into sorted storage keys, skipping
// drivers that reported an empty local id.
func keysFor(locals map[string]string) []string {
	keys := make([]string, 0, len(locals))
	for driver, localID := range locals {
		if strings.TrimSpace(localID) == "" {
			continue
		}
		keys = append(keys, linkKey(driver, localID))
	}
	sort.Strings(keys)
	return keys
}

// resolve looks up the unified id behind a set of keys. It returns zero when
// none of the keys is linked yet and ErrMultipleIdentities when the keys
// disagree.
func resolve(links map[string]int64, keys []string) (int64, error) {
	var id int64
	for _, k := range keys {
		v, ok := links[k]
		if !ok {
			continue
		}
		if id != 0 && v != id {
			return 0, ErrMultipleIdentities
		}
		id = v
	}
	return id, nil
}
