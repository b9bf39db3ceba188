// Package urlenc implements the token encoding kroki expects on its GET
// endpoint: raw DEFLATE followed by URL-safe base64.
package urlenc

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"
	"strings"

	"oss.terrastruct.com/xdefer"
)

// Encode compresses diagram source and encodes it for use as a URL path
// segment. The backend decodes with the inverse algorithm, so the
// alphabet (-/_) and padding must not be altered.
func Encode(raw string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to encode diagram source")

	b := &bytes.Buffer{}

	zw, err := flate.NewWriter(b, flate.DefaultCompression)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(zw, strings.NewReader(raw)); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	encoded := base64.URLEncoding.EncodeToString(b.Bytes())
	return encoded, nil
}

// Decode decodes an encoded diagram token back to its source text.
func Decode(encoded string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to decode diagram token")

	b64Decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	zr := flate.NewReader(bytes.NewReader(b64Decoded))
	var b bytes.Buffer
	if _, err := io.Copy(&b, zr); err != nil {
		return "", err
	}
	if err := zr.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
