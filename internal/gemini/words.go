package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/robalobadob/wordsearch/internal/words"
)

// ErrNoWords is returned when the model reply holds no usable word.
var ErrNoWords = errors.New("gemini: no usable words in response")

const wordsPrompt = `Give me %d words or short phrases for a word search puzzle on the theme %q.

Rules:
- Letters A-Z and spaces only: no digits, hyphens, apostrophes or accents.
- Each entry at most %d letters once spaces are removed.
- No duplicates.
- Answer ONLY with a JSON array of strings, no comment and no markdown.`

// GenerateWords asks the model for count themed entries that fit a grid
// whose edge is maxLen, and returns them as display strings.
func (c *Client) GenerateWords(ctx context.Context, theme string, count, maxLen int) ([]string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: fmt.Sprintf(wordsPrompt, count, theme, maxLen)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	return ParseWords(text, count, maxLen)
}

// ParseWords decodes a JSON array of strings, normalizes each entry and
// keeps at most count of those whose key fits maxLen.
func ParseWords(text string, count, maxLen int) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("parse words JSON: %w\nraw response: %s", err, text)
	}

	ws, _ := words.Normalize(raw)
	out := make([]string, 0, count)
	for _, w := range ws {
		if maxLen > 0 && len(w.Key) > maxLen {
			continue
		}
		out = append(out, strings.ToLower(w.Display))
		if len(out) == count {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrNoWords
	}
	return out, nil
}
