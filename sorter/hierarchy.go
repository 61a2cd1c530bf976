package sorter

import "iter"

// Ancestors yields every prefix of path that must exist before path itself
// can hold messages, least specific first and the full path last:
//
//	Ancestors("foo.bar.baz") -> "foo", "foo.bar", "foo.bar.baz"
//
// An empty path yields a single empty string. The sequence is restartable.
func Ancestors(path string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(path); i++ {
			if path[i] == '.' {
				if !yield(path[:i]) {
					return
				}
			}
		}
		yield(path)
	}
}
