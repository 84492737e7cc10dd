// Package eml provides an Extractor for RFC 822 email files.
package eml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/extractors/html"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles EML (email) documents.
type Extractor struct{}

// New creates a new EML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".eml"}
}

// Extract returns the main headers followed by the message body.
// Plain text parts are preferred over HTML parts.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	body, err := extractBody(msg)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, name := range []string{"From", "To", "Date", "Subject"} {
		value := decodeHeader(msg.Header.Get(name))
		if value == "" {
			continue
		}
		out.WriteString(name)
		out.WriteString(": ")
		out.WriteString(value)
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(body)

	return strings.TrimSpace(out.String()), nil
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header // Return original if decoding fails
	}
	return decoded
}

// extractBody extracts the text content from an email message.
func extractBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content type, read as plain text
		body, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, readErr)
		}
		return string(body), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipartBody(msg.Body, params["boundary"]), nil
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if mediaType == "text/html" {
		return html.StripHTML(string(body)), nil
	}
	return string(body), nil
}

// extractMultipartBody extracts text from multipart messages.
func extractMultipartBody(r io.Reader, boundary string) string {
	if boundary == "" {
		return ""
	}

	mr := multipart.NewReader(r, boundary)
	var textParts, htmlParts []string

	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}

		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			textParts = append(textParts, string(content))
		case mediaType == "text/html":
			htmlParts = append(htmlParts, html.StripHTML(string(content)))
		case strings.HasPrefix(mediaType, "multipart/"):
			if nested := extractMultipartBody(bytes.NewReader(content), params["boundary"]); nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n")
	}
	return strings.Join(htmlParts, "\n")
}
