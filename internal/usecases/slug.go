package usecases

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

const slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSlug derives a URL-safe slug from a business name: lower-case,
// strip non-word characters, collapse separators to hyphens, cap the base
// at 30 characters, then append a random 9-character suffix. The suffix
// makes collisions practically impossible; the store's unique constraint
// catches the rest.
func GenerateSlug(businessName string) string {
	base := strings.ToLower(strings.TrimSpace(businessName))
	base = slugStrip.ReplaceAllString(base, "")
	base = slugCollapse.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if len(base) > 30 {
		base = base[:30]
		base = strings.TrimRight(base, "-")
	}

	suffix := randomSuffix(9)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(slugSuffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		b[i] = slugSuffixAlphabet[idx.Int64()]
	}
	return string(b)
}
