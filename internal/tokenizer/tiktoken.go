// Package tokenizer turns text into the integer token ids that feed the
// embedding table. It wraps pkoukk/tiktoken-go, so the ids match what
// OpenAI models actually see.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// EncodingCL100kBase is the encoding used by GPT-4 and GPT-3.5-turbo.
const EncodingCL100kBase = "cl100k_base"

// TikToken is a BPE tokenizer backed by one of the tiktoken encodings.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// New loads the named tiktoken encoding, e.g. "cl100k_base".
//
// The first call fetches the BPE ranks file, so this can fail without
// network access. Callers that only need ids for demonstration should
// fall back to synthetic ones.
func New(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}

// Encode converts text to token ids.
func (t *TikToken) Encode(text string) []int32 {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok)
	}

	return result
}

// Decode converts token ids back to text.
func (t *TikToken) Decode(tokens []int32) string {
	intTokens := make([]int, len(tokens))
	for i, tok := range tokens {
		intTokens[i] = int(tok)
	}

	return t.encoding.Decode(intTokens)
}

// DecodeToken returns the text of a single token id. Useful for showing
// how a sentence splits into pieces.
func (t *TikToken) DecodeToken(token int32) string {
	return t.encoding.Decode([]int{int(token)})
}

// VocabSize returns the vocabulary size of the encoding.
func (t *TikToken) VocabSize() int {
	switch t.name {
	case EncodingCL100kBase:
		return 100256
	default:
		return 100000
	}
}
