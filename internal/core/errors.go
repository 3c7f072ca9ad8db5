package core

import "sort"

// ErrorKind classifies why a field fails validation. The values are stable
// identifiers clients map to display copy; they are not user-facing text.
type ErrorKind string

const (
	ErrRequired  ErrorKind = "required"
	ErrPattern   ErrorKind = "pattern"
	ErrMinLength ErrorKind = "minLength"
	ErrMin       ErrorKind = "min"
	ErrMax       ErrorKind = "max"
	ErrFallback  ErrorKind = "fallback"
)

// ErrorSet maps dotted field paths (e.g. "payoutMethod.data.email",
// "items.<key>.amount") to the kind of failure. One kind per path: the first
// rule to fail a field wins and later rules do not overwrite it.
type ErrorSet map[string]ErrorKind

// Add records kind for path unless the path already has an error.
func (e ErrorSet) Add(path string, kind ErrorKind) {
	if _, ok := e[path]; ok {
		return
	}
	e[path] = kind
}

// Has reports whether the path has a recorded error.
func (e ErrorSet) Has(path string) bool {
	_, ok := e[path]
	return ok
}

// Empty reports whether no field is failing.
func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

// Merge copies other into e, prefixing each path with prefix + ".". An empty
// prefix merges paths unchanged. Existing entries win, matching Add.
func (e ErrorSet) Merge(prefix string, other ErrorSet) {
	for path, kind := range other {
		if prefix != "" {
			path = prefix + "." + path
		}
		e.Add(path, kind)
	}
}

// Paths returns the failing field paths in sorted order.
func (e ErrorSet) Paths() []string {
	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
