package lineup

// SameLike reports whether a and b denote the same favorite. Start time is
// not part of the identity so a re-fetched set with a shifted start still
// collapses onto the existing like.
func SameLike(a, b Like) bool {
	return a.DJ == b.DJ && a.Room == b.Room && a.BeginningSchedule.Equal(b.BeginningSchedule)
}

// IsLiked reports whether likes holds an entry with like's identity.
func IsLiked(likes []Like, like Like) bool {
	return indexOfLike(likes, like) >= 0
}

// Toggle removes the first entry matching candidate, or prepends candidate
// when none matches. The input slice is never modified.
func Toggle(likes []Like, candidate Like) []Like {
	if i := indexOfLike(likes, candidate); i >= 0 {
		out := make([]Like, 0, len(likes)-1)
		out = append(out, likes[:i]...)
		return append(out, likes[i+1:]...)
	}
	out := make([]Like, 0, len(likes)+1)
	out = append(out, candidate)
	return append(out, likes...)
}

// Dedupe drops later entries sharing an identity with an earlier one.
func Dedupe(likes []Like) []Like {
	out := make([]Like, 0, len(likes))
	for _, l := range likes {
		if !IsLiked(out, l) {
			out = append(out, l)
		}
	}
	return out
}

func indexOfLike(likes []Like, like Like) int {
	for i, l := range likes {
		if SameLike(l, like) {
			return i
		}
	}
	return -1
}
