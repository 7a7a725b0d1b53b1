// Package tokens provides tiktoken-backed prompt token counting so stage
// evaluator calls can log their prompt size.
package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens for a configured OpenAI model.
type Counter struct {
	model string

	once  sync.Once
	codec tokenizer.Codec
	err   error
}

// NewCounter creates a counter for the given model. The tokenizer codec is
// resolved lazily on first use.
func NewCounter(model string) *Counter {
	return &Counter{model: model}
}

// Count returns the token count of text for the counter's model. An unknown
// model falls back to the cl100k_base encoding rather than failing: the
// count feeds logging, not billing.
func (c *Counter) Count(text string) (int, error) {
	c.once.Do(func() {
		c.codec, c.err = codecForModel(c.model)
	})
	if c.err != nil {
		return 0, c.err
	}

	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("failed to encode text: %w", err)
	}
	return len(ids), nil
}

func codecForModel(model string) (tokenizer.Codec, error) {
	if codec, err := tokenizer.ForModel(mapModelName(model)); err == nil {
		return codec, nil
	}

	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer encoding: %w", err)
	}
	return codec, nil
}

// mapModelName maps a model string to tokenizer.Model.
func mapModelName(model string) tokenizer.Model {
	model = strings.ToLower(model)

	switch {
	case strings.HasPrefix(model, "gpt-4o"):
		return tokenizer.GPT4o
	case strings.HasPrefix(model, "gpt-4"):
		return tokenizer.GPT4
	case strings.HasPrefix(model, "gpt-3.5"):
		return tokenizer.GPT35Turbo
	default:
		return tokenizer.GPT35Turbo
	}
}
