package content

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ValidateMIME implements §4.9's MIME/encoding validation for resources
// served through the content index: a text MIME requires valid UTF-8;
// application/json additionally requires the payload parse as JSON;
// any other non-text MIME (including application/octet-stream)
// requires payload to be base64 and decode successfully.
func ValidateMIME(mime string, payload []byte) error {
	lower := strings.ToLower(mime)

	if strings.HasPrefix(lower, "text/") {
		if !utf8.Valid(payload) {
			return errInvalidUTF8
		}
		return nil
	}
	if lower == "application/json" {
		if !utf8.Valid(payload) {
			return errInvalidUTF8
		}
		var v any
		if err := json.Unmarshal(payload, &v); err != nil {
			return errInvalidJSON
		}
		return nil
	}
	// application/octet-stream or any other non-text MIME: payload must
	// be base64 text that decodes successfully.
	if _, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(payload))); err != nil {
		return errInvalidBase64
	}
	return nil
}

type mimeError string

func (e mimeError) Error() string { return string(e) }

const (
	errInvalidUTF8   mimeError = "content: text MIME payload is not valid UTF-8"
	errInvalidJSON   mimeError = "content: application/json payload is not parseable JSON"
	errInvalidBase64 mimeError = "content: non-text MIME payload is not valid base64"
)
