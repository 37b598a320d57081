package lineup

import (
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// MaxSearchDistance is the exclusive upper bound on the edit distance of a
// search hit.
const MaxSearchDistance = 3

var editCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

type searchHit struct {
	set      Set
	distance int
}

// Search returns the sets whose DJ name best matches query, closest first,
// one entry per DJ name (case-insensitive). Every query word is compared to
// every word of a DJ name, to each pair of adjacent words glued together and
// to the whole name glued together, after cutting the candidate down to the
// query word's length so partially typed names still match.
func Search(sets []Set, query string) []Set {
	words := queryWords(query)
	if len(words) == 0 {
		return nil
	}

	var hits []searchHit
	for _, set := range sets {
		if !set.IsScheduled() || set.DJ == "" {
			continue
		}
		for _, candidate := range candidates(set.DJ) {
			for _, w := range words {
				hits = append(hits, searchHit{set: set, distance: distance(candidate, w)})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	seen := make(map[string]bool)
	var out []Set
	for _, h := range hits {
		key := strings.ToLower(h.set.DJ)
		if seen[key] {
			continue
		}
		seen[key] = true
		if h.distance < MaxSearchDistance {
			out = append(out, h.set)
		}
	}
	return out
}

func distance(candidate, word string) int {
	c := []rune(candidate)
	w := []rune(word)
	if len(c) > len(w) {
		c = c[:len(w)]
	}
	return levenshtein.DistanceForStrings(c, w, editCosts)
}

// nameWords lower-cases the ASCII transliteration of name and splits it on
// anything that is not a letter.
func nameWords(name string) []string {
	ascii := strings.ToLower(unidecode.Unidecode(name))
	return strings.FieldsFunc(ascii, func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}

func queryWords(query string) []string {
	return nameWords(strings.TrimSpace(query))
}

// candidates lists adjacent pairs, the full concatenation and the single
// words of a DJ name, without duplicates: "Kos:mo" gives kosmo, kos, mo.
func candidates(dj string) []string {
	words := nameWords(dj)
	all := make([]string, 0, 2*len(words)+1)
	for i := 0; i+1 < len(words); i++ {
		all = append(all, words[i]+words[i+1])
	}
	all = append(all, strings.Join(words, ""))
	all = append(all, words...)

	out := all[:0]
	seen := make(map[string]bool, len(all))
	for _, c := range all {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
