// Package spelling builds a text buffer from spoken spelling words.
package spelling

import "fmt"

const DefaultMaxLength = 255

const (
	wordDelete = "DELETE"
	wordLower  = "LOWER"
	wordUpper  = "UPPER"
)

// Diagnostic describes one ignored spelling word.
type Diagnostic struct {
	Word    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Word, d.Message)
}

// Buffer is the bounded text being spelled plus the current letter case.
type Buffer struct {
	text  []byte
	max   int
	upper bool
}

func NewBuffer(maxLength int) *Buffer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Buffer{text: make([]byte, 0, maxLength), max: maxLength}
}

func (b *Buffer) String() string {
	return string(b.text)
}

func (b *Buffer) Len() int {
	return len(b.text)
}

func (b *Buffer) Upper() bool {
	return b.upper
}

// Reset empties the buffer and returns to lower case.
func (b *Buffer) Reset() {
	b.text = b.text[:0]
	b.upper = false
}

// Clear empties the buffer but keeps the current case.
func (b *Buffer) Clear() {
	b.text = b.text[:0]
}

// Engine applies spelling words to a Buffer.
type Engine struct {
	chars CharMap
}

func NewEngine(chars CharMap) Engine {
	return Engine{chars: chars}
}

// Apply processes words in order and reports every word it ignored.
func (e Engine) Apply(buf *Buffer, words []string) []Diagnostic {
	var diags []Diagnostic

	for _, word := range words {
		switch word {
		case "":
			continue
		case wordDelete:
			if n := len(buf.text); n > 0 {
				buf.text = buf.text[:n-1]
			}
			continue
		case wordLower:
			buf.upper = false
			continue
		case wordUpper:
			buf.upper = true
			continue
		}

		ch, ok := e.chars.Lookup(word)
		if !ok {
			diags = append(diags, Diagnostic{Word: word, Message: "unknown spelling command"})
			continue
		}
		if len(buf.text) >= buf.max {
			diags = append(diags, Diagnostic{Word: word, Message: fmt.Sprintf("buffer full at %d characters", buf.max)})
			continue
		}
		if buf.upper && isLetter(ch) {
			ch -= 'a' - 'A'
		}
		buf.text = append(buf.text, ch)
	}

	return diags
}
