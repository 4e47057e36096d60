// Package codec holds the JSON configuration shared by every transport.
//
// Numbers decode as json.Number so 64-bit ids from the upstream API are
// relayed byte for byte instead of being rounded through float64.
package codec

import (
	"github.com/bytedance/sonic"
)

// JSON is the relay's JSON API.
var JSON = sonic.Config{
	UseNumber:      true,
	EscapeHTML:     false,
	CopyString:     true,
	ValidateString: true,
}.Froze()

// Marshal encodes v with JSON.
func Marshal(v any) ([]byte, error) {
	return JSON.Marshal(v)
}

// Unmarshal decodes data into v with JSON.
func Unmarshal(data []byte, v any) error {
	return JSON.Unmarshal(data, v)
}
