// Package deepset reads and writes values at key paths of decoded JSON trees.
package deepset

// Get returns the value at path. Maps are traversed by key; a missing key
// or a non-map intermediate yields false.
func Get(obj any, path []string) (any, bool) {
	cur := obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at path, creating intermediate maps as needed and
// replacing non-map intermediates. A nil obj is allocated. The (possibly new)
// root is returned.
func Set(obj map[string]any, path []string, value any) map[string]any {
	if obj == nil {
		obj = make(map[string]any)
	}
	if len(path) == 0 {
		return obj
	}
	cur := obj
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
	return obj
}
