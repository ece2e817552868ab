package utils

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkoukk/tiktoken-go"
)

var encoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.EncodingForModel("gpt-4-0613")
})

func NumTokensFromMessages(text string) (int, error) {
	tkm, err := encoding()
	if err != nil {
		return 0, err
	}

	return len(tkm.Encode(text, nil, nil)), nil
}

// EstimateTokens counts tokens with the tiktoken encoder, falling back to a
// four-characters-per-token estimate when the encoder cannot be loaded.
func EstimateTokens(text string) int {
	n, err := NumTokensFromMessages(text)
	if err != nil {
		log.Debug("token encoder unavailable, estimating", "error", err)
		return (len(text) + 3) / 4
	}
	return n
}
