package identity

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ApexKey is the key every name mentioning "apex" collapses to. Apex
// Manufacturing appears under many spellings in supplier notes; this is a
// fixed business rule for that one supplier, not a general matching scheme.
const ApexKey = "apex"

// FingerprintLen is the number of hex characters kept from the key digest.
const FingerprintLen = 8

var (
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	legalSuffixes = regexp.MustCompile(`\b(inc|llc|corp|corporation|company|co|ltd|limited)\b`)
	manufacturing = regexp.MustCompile(`\b(manufacturing|mfg)\b`)
)

// Normalize canonicalizes a raw organization name into the key used for
// identity equality. Steps run in a fixed order:
//
//  1. fold accents (é -> e) and lowercase
//  2. drop every rune that is not a letter, digit, underscore or space
//  3. remove legal-entity words (inc, llc, corp, corporation, company, co, ltd, limited)
//  4. spell "manufacturing" and "mfg" as "mfg"
//  5. collapse whitespace and trim
//  6. any key containing "apex" becomes "apex"
//
// The result may be empty when the name consists only of punctuation and
// legal suffixes.
func Normalize(raw string) string {
	folded, _, err := transform.String(stripAccents, raw)
	if err != nil {
		folded = raw
	}
	s := strings.ToLower(folded)

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)

	s = legalSuffixes.ReplaceAllString(s, "")
	s = manufacturing.ReplaceAllString(s, "mfg")
	s = strings.Join(strings.Fields(s), " ")

	if strings.Contains(s, ApexKey) {
		return ApexKey
	}
	return s
}

// TitleCase renders a raw name for display: every space-separated word gets
// an upper-case first letter and lower-case remainder.
func TitleCase(raw string) string {
	words := strings.Split(raw, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Fingerprint derives the short stable id of a normalized key. The same key
// always yields the same id, across runs and processes.
func Fingerprint(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:FingerprintLen]
}
