package spelling

var nato = []string{
	"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT", "GOLF", "HOTEL",
	"INDIA", "JULIET", "KILO", "LIMA", "MIKE", "NOVEMBER", "OSCAR", "PAPA",
	"QUEBEC", "ROMEO", "SIERRA", "TANGO", "UNIFORM", "VICTOR", "WHISKEY",
	"X_RAY", "YANKEE", "ZULU",
}

var digits = []string{
	"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
}

var punctuation = map[string]byte{
	"COLON":  ':',
	"COMMA":  ',',
	"DOT":    '.',
	"HYPHEN": '-',
	"SPACE":  ' ',
}

// CharMap is an immutable spelling keyword to character table.
type CharMap struct {
	chars map[string]byte
}

// DefaultCharMap maps the NATO alphabet, spoken digits, and a few punctuation words.
func DefaultCharMap() CharMap {
	chars := make(map[string]byte, len(nato)+len(digits)+len(punctuation))
	for i, word := range nato {
		chars[word] = 'a' + byte(i)
	}
	for i, word := range digits {
		chars[word] = '0' + byte(i)
	}
	for word, ch := range punctuation {
		chars[word] = ch
	}
	return CharMap{chars: chars}
}

// Lookup returns the character for an exact keyword.
func (m CharMap) Lookup(keyword string) (byte, bool) {
	ch, ok := m.chars[keyword]
	return ch, ok
}

// Keywords returns every mapped keyword in no particular order.
func (m CharMap) Keywords() []string {
	out := make([]string, 0, len(m.chars))
	for k := range m.chars {
		out = append(out, k)
	}
	return out
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}
