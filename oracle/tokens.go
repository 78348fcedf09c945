package oracle

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/autopromptix/autopromptix/utils"
)

// TokenCounter counts model tokens in a text.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts with the BPE encoding of a model.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding for model, falling back to the
// gpt-4o encoding and then cl100k_base when the model is unknown.
func NewTiktokenCounter(model string, logger utils.Logger) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("Failed to get encoding for model, defaulting to gpt-4o", "model", model, "error", err)
		encoding, err = tiktoken.EncodingForModel("gpt-4o")
		if err != nil {
			encoding, err = tiktoken.GetEncoding("cl100k_base")
			if err != nil {
				return nil, fmt.Errorf("failed to get default encoding: %w", err)
			}
		}
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// EstimateCounter approximates one token per four characters. Used when no
// BPE encoding can be loaded.
type EstimateCounter struct{}

func (EstimateCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return max(n/4, 1)
}

// NewTokenCounter returns a TiktokenCounter for model or an EstimateCounter
// if the encoding is unavailable.
func NewTokenCounter(model string, logger utils.Logger) TokenCounter {
	counter, err := NewTiktokenCounter(model, logger)
	if err != nil {
		logger.Warn("Token encoding unavailable, estimating counts", "error", err)
		return EstimateCounter{}
	}
	return counter
}
