package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	lineCommentStart  = []byte("//")
	blockCommentStart = []byte("/*")
	blockCommentEnd   = []byte("*/")
)

// normalizeJSONC rewrites JSONC into JSON of the same length. Comments
// and trailing commas are blanked rather than removed, so decoder
// offsets still point into the file as written.
func normalizeJSONC(content string) (string, error) {
	buf := []byte(content)
	trailingComma := -1

	for i := 0; i < len(buf); {
		switch {
		case buf[i] == '"':
			trailingComma = -1
			i = stringEnd(buf, i)
		case bytes.HasPrefix(buf[i:], lineCommentStart):
			n := bytes.IndexAny(buf[i:], "\r\n")
			if n < 0 {
				n = len(buf) - i
			}
			blank(buf[i : i+n])
			i += n
		case bytes.HasPrefix(buf[i:], blockCommentStart):
			n := bytes.Index(buf[i+len(blockCommentStart):], blockCommentEnd)
			if n < 0 {
				line, col := offsetToLineCol(content, int64(i+1))
				return "", fmt.Errorf("line %d column %d: unterminated block comment", line, col)
			}
			n += len(blockCommentStart) + len(blockCommentEnd)
			blank(buf[i : i+n])
			i += n
		case buf[i] == ',':
			trailingComma = i
			i++
		case buf[i] == '}' || buf[i] == ']':
			if trailingComma >= 0 {
				buf[trailingComma] = ' '
			}
			trailingComma = -1
			i++
		case isJSONWhitespace(buf[i]):
			i++
		default:
			trailingComma = -1
			i++
		}
	}
	return string(buf), nil
}

// stringEnd returns the index just past the string literal opened at start.
func stringEnd(buf []byte, start int) int {
	for i := start + 1; i < len(buf); i++ {
		switch buf[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(buf)
}

func blank(span []byte) {
	for i, ch := range span {
		if ch != '\n' && ch != '\r' {
			span[i] = ' '
		}
	}
}

func isJSONWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	_, err := decoder.Token()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		return errors.New("multiple JSON values are not allowed")
	default:
		return err
	}
}

// withPosition prefixes decoder errors that carry an offset with the
// line and column they refer to.
func withPosition(content string, err error) error {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err
	}
	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

// offsetToLineCol maps a decoder offset, which points one past the
// offending byte, to a 1-based line and column.
func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}
	prefix := content[:min(int(offset), len(content))]
	prefix = prefix[:max(len(prefix)-1, 0)]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndexByte(prefix, '\n')
	return line, col
}
