package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoJSONObject  = errors.New("no JSON object found in model reply")
	ErrMalformedJSON = errors.New("malformed JSON object in model reply")
	ErrDecodeReply   = errors.New("decode model reply")
)

var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinkBlocks removes <think>...</think> reasoning sections some models emit.
func StripThinkBlocks(s string) string {
	return strings.TrimSpace(thinkBlockRe.ReplaceAllString(s, ""))
}

// ExtractJSONObject returns the JSON object carried by a model reply.
//
// The whole reply is tried first. Otherwise the reply is scanned for
// top-level balanced {...} spans and the first one that parses is returned.
// Braces inside JSON strings do not count towards the depth.
func ExtractJSONObject(reply string) (json.RawMessage, error) {
	text := StripThinkBlocks(reply)
	if text == "" {
		return nil, ErrNoJSONObject
	}
	if text[0] == '{' && json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	var firstErr error
	for i := 0; i < len(text); {
		start := strings.IndexByte(text[i:], '{')
		if start < 0 {
			break
		}
		start += i

		end := matchingBrace(text, start)
		if end < 0 {
			// a stray brace in prose; a real object may still follow it
			i = start + 1
			continue
		}

		candidate := text[start : end+1]
		var v json.RawMessage
		err := json.Unmarshal([]byte(candidate), &v)
		if err == nil {
			return json.RawMessage(candidate), nil
		}
		if firstErr == nil {
			firstErr = err
		}
		i = end + 1
	}

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, firstErr)
	}
	return nil, ErrNoJSONObject
}

// ExtractInto extracts the reply's JSON object and decodes it into v.
func ExtractInto(reply string, v interface{}) (json.RawMessage, error) {
	raw, err := ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeReply, err)
	}
	return raw, nil
}

// matchingBrace returns the index of the brace closing the one at open, or -1.
func matchingBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
