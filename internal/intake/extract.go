// Package intake turns raw request input (pasted text or an uploaded file)
// into plain text for classification. Extraction never fails: anything
// unreadable yields an empty string and the caller handles it as empty
// input.
package intake

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Extract prefers pasted text over an uploaded file, decodes .eml and HTML
// uploads, and clips the result to maxChars.
func Extract(rawText, filename string, data []byte, maxChars int) string {
	if strings.TrimSpace(rawText) != "" {
		return clip(rawText, maxChars)
	}

	if len(data) == 0 {
		return ""
	}

	lower := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(lower, ".eml"):
		if text := extractEML(data); text != "" {
			return clip(text, maxChars)
		}
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return clip(StripHTML(decodeText(data)), maxChars)
	}

	return clip(decodeText(data), maxChars)
}

func clip(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	return string(runes[:maxChars])
}

// decodeText assumes UTF-8 and falls back to Latin-1, which maps every byte
// to a rune and therefore never fails.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))

	for _, c := range data {
		b.WriteRune(rune(c))
	}

	return b.String()
}

func extractEML(data []byte) string {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	encoding := msg.Header.Get("Content-Transfer-Encoding")

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipart(msg.Body, params["boundary"])
	}

	body := decodeBody(msg.Body, encoding)
	if strings.HasPrefix(mediaType, "text/html") {
		return StripHTML(body)
	}

	return body
}

// extractMultipart walks the parts preferring text/plain; an HTML part is
// kept as a tag-stripped fallback when no plain part exists.
func extractMultipart(body io.Reader, boundary string) string {
	if boundary == "" {
		return ""
	}

	reader := multipart.NewReader(body, boundary)

	htmlFallback := ""

	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			continue
		}

		encoding := part.Header.Get("Content-Transfer-Encoding")

		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			if nested := extractMultipart(part, params["boundary"]); nested != "" {
				return nested
			}
		case strings.HasPrefix(mediaType, "text/plain"):
			if text := decodeBody(part, encoding); strings.TrimSpace(text) != "" {
				return text
			}
		case strings.HasPrefix(mediaType, "text/html"):
			if htmlFallback == "" {
				htmlFallback = StripHTML(decodeBody(part, encoding))
			}
		}
	}

	return htmlFallback
}

func decodeBody(r io.Reader, encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}

	data, err := io.ReadAll(r)
	if err != nil && len(data) == 0 {
		return ""
	}

	return decodeText(data)
}
