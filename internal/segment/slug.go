package segment

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugWords is how many title words go into a reading slug.
const slugWords = 5

// Slugify converts a title into a URL-safe slug built from at most maxWords
// words (all words when maxWords <= 0). Accents are folded and characters
// outside [a-z0-9-] are dropped.
func Slugify(s string, maxWords int) string {
	// Chained transformers carry state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var words []string
	for _, w := range strings.Fields(folded) {
		w = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return -1
		}, w)
		w = strings.Trim(w, "-")
		if w == "" {
			continue
		}
		words = append(words, w)
		if maxWords > 0 && len(words) == maxWords {
			break
		}
	}
	return strings.Join(words, "-")
}

// slugger hands out slugs unique within one run by suffixing -2, -3, ...
type slugger struct {
	used map[string]int
}

func newSlugger() *slugger {
	return &slugger{used: make(map[string]int)}
}

func (s *slugger) unique(slug string) string {
	if slug == "" {
		slug = "reading"
	}
	n := s.used[slug]
	s.used[slug] = n + 1
	if n == 0 {
		return slug
	}
	for {
		n++
		candidate := slug + "-" + strconv.Itoa(n)
		if s.used[candidate] == 0 {
			s.used[candidate] = 1
			s.used[slug] = n
			return candidate
		}
	}
}
