package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURL reports whether ref is a data: URL
func IsDataURL(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// ParseDataURL decodes a base64 data URL ("data:image/png;base64,....") and
// returns its media type and payload
func ParseDataURL(ref string) (string, []byte, error) {
	if !IsDataURL(ref) {
		return "", nil, fmt.Errorf("not a data URL")
	}
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URL: missing ','")
	}
	meta := ref[len("data:"):comma]
	payload := ref[comma+1:]

	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URL encoding: only base64 is accepted")
	}
	mediaType := strings.TrimSuffix(meta, ";base64")

	data, err := DecodeBase64(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	return mediaType, data, nil
}

// DecodeBase64 accepts standard or raw (unpadded) base64, ignoring whitespace
func DecodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// EncodeDataURL builds a base64 data URL
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
