package consolidate

import (
	"fmt"
	"strings"
	"unicode"
)

const maxSlugLen = 12

var indicatorSuffixes = map[string]string{
	"R001": "SINGLEBID",
	"R002": "NONCOMP",
	"R003": "SPLITTING",
	"R004": "CONCENTRATION",
	"R005": "MODS",
	"R006": "OUTLIER",
}

// idAllocator hands out finding ids unique within one consolidation run.
type idAllocator struct {
	used map[string]bool
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]bool)}
}

// next returns F-{indicator}-{slug}-{suffix}, appending -2, -3, ... on collision.
func (a *idAllocator) next(indicatorID, entityName string) string {
	base := fmt.Sprintf("F-%s-%s-%s", indicatorID, entitySlug(entityName), indicatorSuffix(indicatorID))
	id := base
	for n := 2; a.used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	a.used[id] = true
	return id
}

func indicatorSuffix(indicatorID string) string {
	if s, ok := indicatorSuffixes[indicatorID]; ok {
		return s
	}
	return indicatorID
}

// entitySlug reduces a name to its first one or two upper-cased alphanumeric
// words, at most maxSlugLen characters including the joining dash.
func entitySlug(name string) string {
	var words []string
	for _, field := range strings.Fields(name) {
		if w := alnumUpper(field); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return "UNKNOWN"
	}

	slug := truncate(words[0], maxSlugLen)
	if len(words) > 1 {
		if room := maxSlugLen - len(slug) - 1; room > 0 {
			slug += "-" + truncate(words[1], room)
		}
	}
	return slug
}

func alnumUpper(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
