package helpers

import (
	"strings"
	"unicode"
)

// Honorific prefixes stripped before display-name comparison. Order matters:
// longer variants first so "นางสาว" is not truncated to "นาง" + leftover.
var titlePrefixes = []string{
	"นางสาว", "นาง", "นาย", "ด.ช.", "ด.ญ.", "เด็กชาย", "เด็กหญิง",
	"mrs.", "mrs", "miss", "ms.", "ms", "mr.", "mr", "master",
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DigitRuns splits a masked string into its visible digit groups, e.g.
// "xxx-1234-xxx-5678" -> ["1234","5678"].
func DigitRuns(s string) []string {
	var runs []string
	var cur strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			runs = append(runs, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		runs = append(runs, cur.String())
	}
	return runs
}

// SharesDigitRun reports whether any contiguous run of n digits from a
// appears inside b. Both sides are reduced to digits first.
func SharesDigitRun(a, b string, n int) bool {
	da, db := Digits(a), Digits(b)
	if n <= 0 || len(da) < n || len(db) < n {
		return false
	}
	for i := 0; i+n <= len(da); i++ {
		if strings.Contains(db, da[i:i+n]) {
			return true
		}
	}
	return false
}

// NormalizeName strips a leading honorific, lower-cases and removes all
// whitespace. Works for Thai and latin names.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, t := range titlePrefixes {
		if strings.HasPrefix(s, t) {
			s = strings.TrimPrefix(s, t)
			break
		}
	}
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NamesOverlap reports whether any contiguous substring of m runes from one
// normalized name appears in the other. Rune-based so Thai names compare
// correctly.
func NamesOverlap(a, b string, m int) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	return runeWindowContains(na, nb, m) || runeWindowContains(nb, na, m)
}

func runeWindowContains(needle, hay string, m int) bool {
	if m <= 0 {
		return false
	}
	rs := []rune(needle)
	if len(rs) < m || hay == "" {
		return false
	}
	for i := 0; i+m <= len(rs); i++ {
		if strings.Contains(hay, string(rs[i:i+m])) {
			return true
		}
	}
	return false
}
