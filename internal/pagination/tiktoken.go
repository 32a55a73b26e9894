package pagination

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE vocabulary used for page budgets.
const DefaultEncoding = "cl100k_base"

// TiktokenTokenizer counts tokens with an OpenAI BPE encoding. The vocabulary
// is fetched on first use and cached in TIKTOKEN_CACHE_DIR when set.
type TiktokenTokenizer struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", encoding, err)
	}
	return &TiktokenTokenizer{encoding: encoding, enc: enc}, nil
}

// Encoding returns the loaded encoding name.
func (t *TiktokenTokenizer) Encoding() string {
	return t.encoding
}

// Tokenize encodes text. Special-token markers are treated as ordinary text.
func (t *TiktokenTokenizer) Tokenize(text string) []int {
	return t.enc.Encode(text, nil, nil)
}
