package filter

// UniqueBy admits each distinct key once. The first value with a given key
// wins; later values with the same key are rejected.
//
// The seen set only grows. A UniqueBy is meant to live for one run and is
// not safe for concurrent use.
type UniqueBy[T any, K comparable] struct {
	key  func(T) K
	seen map[K]struct{}
}

// NewUniqueBy returns a UniqueBy that identifies values with key.
func NewUniqueBy[T any, K comparable](key func(T) K) *UniqueBy[T, K] {
	return &UniqueBy[T, K]{
		key:  key,
		seen: make(map[K]struct{}),
	}
}

// Admit reports whether v is the first value with its key, and marks the
// key as seen.
func (u *UniqueBy[T, K]) Admit(v T) bool {
	k := u.key(v)
	if _, ok := u.seen[k]; ok {
		return false
	}
	u.seen[k] = struct{}{}
	return true
}

// Seen returns the number of distinct keys admitted so far.
func (u *UniqueBy[T, K]) Seen() int {
	return len(u.seen)
}
