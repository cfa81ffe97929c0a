package imaging

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// SlugBudget is the character budget of the title part of a base name.
const SlugBudget = 24

// Slug extracts the words of title and concatenates them until the next word
// would exceed budget characters. A word starts with a letter and continues
// with letters or digits. The word "the" is dropped. Words are never cut; the
// first word is kept even when it alone exceeds the budget.
func Slug(title string, budget int) string {
	var b strings.Builder
	n := 0
	for _, word := range words(norm.NFC.String(title)) {
		if strings.EqualFold(word, "the") {
			continue
		}
		wl := utf8.RuneCountInString(word)
		if n > 0 && n+wl > budget {
			break
		}
		b.WriteString(word)
		n += wl
	}
	return b.String()
}

func words(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			cur.WriteRune(r)
		case unicode.IsDigit(r) && cur.Len() > 0:
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return out
}

// BaseName returns the file base name of a photo taken at taken with title.
func BaseName(taken time.Time, title string) string {
	return taken.Format("2006-01-02") + "_" + Slug(title, SlugBudget)
}

// DerivativeName returns the file name of the size derivative of base.
func DerivativeName(base string, size Size) string {
	return fmt.Sprintf("%s_%s.jpg", base, size)
}
