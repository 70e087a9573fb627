package constants

import (
	"regexp"
	"testing"
	"time"
)

func TestTimeFormatDate(t *testing.T) {
	// Check that the canonical date format round-trips and matches the regexp.
	s := time.Date(2025, 9, 26, 0, 0, 0, 0, time.UTC).Format(TimeFormatDate)
	if s != "2025-09-26" {
		t.Fatal("Unexpected canonical date format output: ", s)
	}
	re := regexp.MustCompile("^" + TimeFormatDateRegex + "$")
	if !re.MatchString(s) {
		t.Fatal("Mismatch between TimeFormatDate and regexp in constant TimeFormatDateRegex.")
	}
}

func TestSentinelTokensAreDistinct(t *testing.T) {
	tokens := []string{TokenNoPage, TokenNoCountry, TokenNoDevice, TokenNoAppearance, TokenNoIndex, TokenPageTotal, TokenSiteTotal}
	seen := map[string]bool{}
	for _, tok := range tokens {
		if seen[tok] {
			t.Fatal("Duplicate sentinel token: ", tok)
		}
		seen[tok] = true
	}
}
