// Package placename canonicalizes free-text location names and scores how
// likely two names refer to the same place.
package placename

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/gnames/gnlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SubstringScore is the lowest score of two names where one contains
	// the other.
	SubstringScore = 0.9
	// OverlapWeight scales the token overlap ratio.
	OverlapWeight = 0.95
)

// separators split composite names like "Neighborhood, City".
const separators = ",-/\\|;"

var (
	// generic locality words, removed in this order
	genericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(area|estate|phase|extension|ext|street|st|road|rd|avenue|ave|close|crescent|cres)\b`),
		regexp.MustCompile(`\b(phase\s*\d+|ext\s*\d+)\b`),
		regexp.MustCompile(`\blga\b`),
	}
	numberPattern = regexp.MustCompile(`\b\d+\b`)
	quoteReplacer = strings.NewReplacer(`"`, "", `'`, "")
)

// Normalize repairs invalid UTF-8, lowercases the name, removes diacritics, quotes, generic
// locality words and bare numbers, and keeps only the first segment of
// a composite name. The result is stable under repeated application.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(gnlib.FixUtf8(raw)))
	if s == "" {
		return ""
	}

	s = stripDiacritics(s)
	s = collapseSpaces(s)
	s = quoteReplacer.Replace(s)
	s = primarySegment(s)

	for _, re := range genericPatterns {
		s = re.ReplaceAllString(s, "")
	}
	s = numberPattern.ReplaceAllString(s, "")

	s = collapseSpaces(s)
	return strings.Trim(s, separators+" ")
}

// Similarity returns a score in [0, 1] for two raw names. Both names are
// normalized first, an empty normalized name scores 0.
func Similarity(a, b string) float64 {
	return SimilarityNormalized(Normalize(a), Normalize(b))
}

// AreSameLocation reports whether the similarity of two names reaches
// the threshold.
func AreSameLocation(a, b string, threshold float64) bool {
	return Similarity(a, b) >= threshold
}

// CanonicalForm picks a representative for a cluster of name variants.
// The most frequent normalized form wins, ties go to the form seen first.
// Among raw names sharing that form the longest one is returned.
// The second value is a copy of the input.
func CanonicalForm(names []string) (string, []string) {
	if len(names) == 0 {
		return "", nil
	}

	counts := make(map[string]int)
	var order []string
	normalized := make([]string, len(names))
	for i, v := range names {
		n := Normalize(v)
		normalized[i] = n
		if _, ok := counts[n]; !ok {
			order = append(order, n)
		}
		counts[n]++
	}

	best := order[0]
	for _, n := range order[1:] {
		if counts[n] > counts[best] {
			best = n
		}
	}

	var res string
	for i, v := range names {
		if normalized[i] != best {
			continue
		}
		if len([]rune(v)) > len([]rune(res)) {
			res = v
		}
	}

	all := make([]string, len(names))
	copy(all, names)
	return res, all
}

// SimilarityNormalized scores two names that are already normalized.
func SimilarityNormalized(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	score := editRatio(a, b)

	if strings.Contains(a, b) || strings.Contains(b, a) {
		score = max(score, SubstringScore)
	}

	if overlap := tokenOverlap(a, b); overlap > 0 {
		score = max(score, OverlapWeight*overlap)
	}

	return min(score, 1)
}

// editRatio converts Levenshtein distance into a ratio over the longer
// string, counted in runes.
func editRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// tokenOverlap is the size of the token intersection divided by the size
// of the smaller token set.
func tokenOverlap(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	var common int
	for k := range ta {
		if _, ok := tb[k]; ok {
			common++
		}
	}
	return float64(common) / float64(min(len(ta), len(tb)))
}

func tokenSet(s string) map[string]struct{} {
	res := make(map[string]struct{})
	for _, v := range strings.Fields(s) {
		res[v] = struct{}{}
	}
	return res
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return res
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// primarySegment returns the first non-empty segment of a composite name.
func primarySegment(s string) string {
	if !strings.ContainsAny(s, separators) {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	for _, v := range parts {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
