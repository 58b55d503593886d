// Copyright 2026 OneHead Project. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer provides the public API for turning text into the
// token ids the embedding table consumes.
package tokenizer

import "github.com/onehead-ml/onehead/internal/tokenizer"

// EncodingCL100kBase is the encoding used by GPT-4 and GPT-3.5-turbo.
const EncodingCL100kBase = tokenizer.EncodingCL100kBase

// TikToken is a BPE tokenizer backed by a tiktoken encoding.
type TikToken = tokenizer.TikToken

// New loads the named tiktoken encoding.
//
// Example:
//
//	tok, err := tokenizer.New(tokenizer.EncodingCL100kBase)
//	if err != nil {
//	    return err
//	}
//	ids := tok.Encode("hello world")
func New(encodingName string) (*TikToken, error) {
	return tokenizer.New(encodingName)
}
