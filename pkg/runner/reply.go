package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultReplyLimit bounds a single user reply, in bytes.
const DefaultReplyLimit = 512

var (
	ErrReplyTooLong  = errors.New("reply too long")
	ErrReplyEncoding = errors.New("reply is not valid UTF-8")
)

// CleanReply prepares a typed line for the classifiers. Control characters are
// dropped and whitespace runs fold to a single space, so the text recorded in
// the session history is exactly the text that was classified.
// A limit of zero or less means DefaultReplyLimit.
func CleanReply(raw string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultReplyLimit
	}
	if len(raw) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrReplyTooLong, len(raw), limit)
	}
	if !utf8.ValidString(raw) {
		return "", ErrReplyEncoding
	}

	visible := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.Join(strings.Fields(visible), " "), nil
}
