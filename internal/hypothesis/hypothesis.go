// Package hypothesis splits recognizer output into command words.
package hypothesis

import "strings"

// Tokenize splits an utterance on whitespace runs. Words keep their case;
// keyword lookup is exact, so "up" is an unknown word.
func Tokenize(utterance string) []string {
	fields := strings.Fields(utterance)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Normalize returns utterance with whitespace runs collapsed to single spaces.
func Normalize(utterance string) string {
	return strings.Join(Tokenize(utterance), " ")
}

// Cursor walks a token list with one-token lookahead and rewind.
type Cursor struct {
	words []string
	pos   int
}

func NewCursor(words []string) *Cursor {
	return &Cursor{words: words}
}

// Next returns the next word and advances.
func (c *Cursor) Next() (string, bool) {
	if c.pos >= len(c.words) {
		return "", false
	}
	word := c.words[c.pos]
	c.pos++
	return word, true
}

// Peek returns the next word without advancing.
func (c *Cursor) Peek() (string, bool) {
	if c.pos >= len(c.words) {
		return "", false
	}
	return c.words[c.pos], true
}

// Rewind steps back one word so the last word returned by Next is read again.
func (c *Cursor) Rewind() {
	if c.pos > 0 {
		c.pos--
	}
}

// Rest returns the unread words.
func (c *Cursor) Rest() []string {
	return c.words[c.pos:]
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.words)
}
