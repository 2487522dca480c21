package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Charset is the single-byte encoding that bytes which are not valid
// UTF-8 are decoded as. Spreadsheet exports on Windows are usually
// Windows-1252, which also covers the printable range of ISO-8859-1.
type Charset string

const (
	CharsetWindows1252 Charset = "windows-1252"
	CharsetLatin1      Charset = "iso-8859-1"
	CharsetLatin9      Charset = "iso-8859-15"
)

// DefaultCharset is used when no charset is configured.
const DefaultCharset = CharsetWindows1252

var charmaps = map[Charset]*charmap.Charmap{
	CharsetWindows1252: charmap.Windows1252,
	CharsetLatin1:      charmap.ISO8859_1,
	CharsetLatin9:      charmap.ISO8859_15,
}

var charsetAliases = map[string]Charset{
	"cp1252": CharsetWindows1252,
	"latin1": CharsetLatin1,
	"latin9": CharsetLatin9,
}

// ParseCharset validates a charset name. Empty means DefaultCharset.
func ParseCharset(name string) (Charset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return DefaultCharset, nil
	}
	if c, ok := charsetAliases[n]; ok {
		return c, nil
	}
	if _, ok := charmaps[Charset(n)]; ok {
		return Charset(n), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCharset, name)
}

// Repair returns s as valid UTF-8. Valid sequences are kept and every
// stray byte is decoded through the charset, so a cell that mixes UTF-8
// with legacy bytes keeps both.
func (c Charset) Repair(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	cm, ok := charmaps[c]
	if !ok {
		cm = charmaps[DefaultCharset]
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/2)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(cm.DecodeByte(s[i]))
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
