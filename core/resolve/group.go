package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Structured language-group codes look like "2a1kl-3": class count, language
// token, optional digits around the "kl" marker and a split index. The
// grammar is one anchored pattern; everything else falls back to
// canonicalization.
var groupCode = regexp.MustCompile(`^([1-4])([a-zA-Z]|DSD)[1-4]?kl[1-4]?-([0-9]+)$`)

// languageNames maps the single-letter language tokens to Polish language
// names. The token's letter case separately selects the group size.
var languageNames = map[string]string{
	"a": "angielski",
	"n": "niemiecki",
	"f": "francuski",
	"h": "hiszpański",
	"r": "rosyjski",
	"w": "włoski",
}

// ErrUnknownLanguage reports a structured group code whose language token is
// outside the known set. A partially recognized code is a data-integrity
// problem and must surface rather than degrade.
type ErrUnknownLanguage struct {
	Code  string
	Token string
}

func (e ErrUnknownLanguage) Error() string {
	return fmt.Sprintf("group code %q: unknown language token %q", e.Code, e.Token)
}

// decodeGroupCode parses a structured group code. ok is false when the input
// does not match the grammar at all.
func decodeGroupCode(raw string) (display string, ok bool, err error) {
	m := groupCode.FindStringSubmatch(raw)
	if m == nil {
		return "", false, nil
	}
	token := m[2]
	// Normalize the split index so "03" and "3" read the same.
	index, err := strconv.Atoi(m[3])
	if err != nil {
		return "", false, nil
	}
	if strings.EqualFold(token, "DSD") {
		return fmt.Sprintf("DSD %d", index), true, nil
	}
	name, known := languageNames[strings.ToLower(token)]
	if !known {
		return "", true, ErrUnknownLanguage{Code: raw, Token: token}
	}
	size := "mały"
	if unicode.IsUpper(rune(token[0])) {
		size = "duży"
	}
	return fmt.Sprintf("język %s %s %d", name, size, index), true, nil
}
