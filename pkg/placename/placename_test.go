package placename_test

import (
	"testing"
	"unicode/utf8"

	"github.com/gnames/geobuckets/pkg/placename"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg, raw, res string
	}{
		{"empty", "", ""},
		{"spaces only", "   ", ""},
		{"lowercase and trim", "  Sangotedo ", "sangotedo"},
		{"composite name keeps first part", "Sangotedo, Ajah", "sangotedo"},
		{"hyphen separator", "Ikoyi - Lagos", "ikoyi"},
		{"leading separator", ", Lagos", "lagos"},
		{"phase with number", "Lekki Phase 1", "lekki"},
		{"estate suffix", "Magodo Estate", "magodo"},
		{"street abbreviation", "Allen Ave", "allen"},
		{"lga token", "Eti-Osa LGA", "eti"},
		{"lga without separator", "Ikeja LGA", "ikeja"},
		{"bare numbers", "Block 12 Victoria Island", "block victoria island"},
		{"diacritics", "Ìkòyí", "ikoyi"},
		{"quotes", `"Banana" Island's`, "banana islands"},
		{"collapse whitespace", "Victoria   Island", "victoria island"},
		{"numbered extension", "Gbagada ext2", "gbagada"},
		{"only generic words", "Phase 2 Estate", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, placename.Normalize(v.raw), v.msg)
	}
}

func TestNormalizeInvalidUTF8(t *testing.T) {
	res := placename.Normalize("Ikoyi\xff\xfe Lagos")
	assert.True(t, utf8.ValidString(res))
	assert.Contains(t, res, "ikoyi")
	assert.Equal(t, res, placename.Normalize(res))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Sangotedo, Ajah",
		"Lekki Phase 1, Lagos",
		"  Victoria   Island  Ext 3 ",
		"st.john's road",
		"Ìkòyí Crescent",
		"phase1 area",
		"Block 12 | Opebi",
	}

	for _, v := range inputs {
		once := placename.Normalize(v)
		assert.Equal(t, once, placename.Normalize(once), v)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		msg  string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "Sangotedo", "Sangotedo", 1, 1},
		{"same after normalization", "Sangotedo, Ajah", "sangotedo", 1, 1},
		{"substring", "Sangotedo", "sangotedo lagos", 0.9, 1},
		{"reordered tokens", "Victoria Island", "Island Victoria", 0.95, 0.95},
		{"typo", "Sangotedo", "Sangotdo", 0.85, 0.9},
		{"unrelated", "Ikoyi", "Surulere", 0, 0.3},
		{"empty side", "Ikoyi", "", 0, 0},
		{"normalizes to empty", "Phase 1", "Lekki", 0, 0},
	}

	for _, v := range tests {
		res := placename.Similarity(v.a, v.b)
		assert.GreaterOrEqual(t, res, v.min, v.msg)
		assert.LessOrEqual(t, res, v.max, v.msg)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Sangotedo", "sangotedo lagos"},
		{"Lekki", "Lekki Phase 1"},
		{"Ikoyi", "Surulere"},
		{"Victoria Island", "Island"},
		{"Ajah", "Abraham Adesanya, Ajah"},
	}

	for _, v := range pairs {
		assert.Equal(t,
			placename.Similarity(v[0], v[1]),
			placename.Similarity(v[1], v[0]),
			"%s / %s", v[0], v[1],
		)
	}
}

func TestAreSameLocation(t *testing.T) {
	assert.True(t, placename.AreSameLocation("Sangotedo", "sangotedo lagos", 0.7))
	assert.True(t, placename.AreSameLocation("Lekki Phase 1", "Lekki", 1))
	assert.False(t, placename.AreSameLocation("Ikoyi", "Yaba", 0.7))
}

func TestCanonicalForm(t *testing.T) {
	t.Run("empty cluster", func(t *testing.T) {
		rep, all := placename.CanonicalForm(nil)
		assert.Empty(t, rep)
		assert.Empty(t, all)
	})

	t.Run("most frequent form, longest raw", func(t *testing.T) {
		names := []string{
			"Lekki",
			"Sangotedo",
			"Sangotedo, Ajah",
			"sangotedo",
		}
		rep, all := placename.CanonicalForm(names)
		assert.Equal(t, "Sangotedo, Ajah", rep)
		assert.Equal(t, names, all)
	})

	t.Run("ties go to first seen form", func(t *testing.T) {
		names := []string{"Yaba", "Ikoyi", "yaba ", "Ikoyi"}
		rep, _ := placename.CanonicalForm(names)
		assert.Equal(t, "yaba ", rep)
	})

	t.Run("result does not alias input", func(t *testing.T) {
		names := []string{"Yaba"}
		_, all := placename.CanonicalForm(names)
		all[0] = "changed"
		assert.Equal(t, "Yaba", names[0])
	})
}
