package utils

import "iter"

// Chunk splits s into consecutive sub-slices of at most size elements and
// yields them in order. The last chunk is shorter when len(s) is not a
// multiple of size. The sequence is lazy and can be ranged more than once.
// Chunks are views into s with their capacity clipped, so appending to one
// cannot overwrite the next.
//
// Chunk panics if size is not positive.
func Chunk[T any](s []T, size int) iter.Seq[[]T] {
	if size < 1 {
		panic("utils: chunk size must be positive")
	}
	return func(yield func([]T) bool) {
		for start := 0; start < len(s); start += size {
			end := min(start+size, len(s))
			if !yield(s[start:end:end]) {
				return
			}
		}
	}
}
