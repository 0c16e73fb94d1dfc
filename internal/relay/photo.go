package relay

import (
	"encoding/base64"
	"errors"
	"strings"
)

var errUndecodablePhoto = errors.New("photo is not a base64 payload")

// photoEncodings are tried in order. Standard padded base64 is what the form sends.
var photoEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// normalizePhoto accepts wrapped, URL-safe, unpadded or data-URI-prefixed base64
// and returns the same bytes as standard padded base64.
func normalizePhoto(photo string) (string, error) {
	if strings.HasPrefix(photo, "data:") {
		if _, payload, found := strings.Cut(photo, ","); found {
			photo = payload
		}
	}

	photo = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, photo)
	if photo == "" {
		return "", nil
	}

	for _, enc := range photoEncodings {
		if raw, err := enc.DecodeString(photo); err == nil {
			return base64.StdEncoding.EncodeToString(raw), nil
		}
	}

	return "", errUndecodablePhoto
}
