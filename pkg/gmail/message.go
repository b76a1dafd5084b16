package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// composeHeaders is the ordered header set for an outgoing message. Order
// is kept stable so raw payloads are reproducible in tests.
type composeHeaders struct {
	To         string
	Cc         string
	Subject    string
	InReplyTo  string
	References string
}

// buildRawMessage assembles a plain-text RFC822 message and encodes it the
// way the Gmail API expects raw payloads: URL-safe base64.
func buildRawMessage(h composeHeaders, body string) string {
	var b strings.Builder
	writeHeader(&b, "To", h.To)
	writeHeader(&b, "Cc", h.Cc)
	writeHeader(&b, "Subject", h.Subject)
	writeHeader(&b, "In-Reply-To", h.InReplyTo)
	writeHeader(&b, "References", h.References)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

func writeHeader(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\r\n")
}

// extractBody pulls the first text/plain body out of a message payload,
// recursing through nested multipart structures.
func extractBody(part *apiPart) string {
	if part == nil {
		return ""
	}
	if part.Body != nil && part.Body.Data != "" {
		if decoded, err := decodeBody(part.Body.Data); err == nil {
			return decoded
		}
	}
	for _, p := range part.Parts {
		if p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "" {
			if decoded, err := decodeBody(p.Body.Data); err == nil {
				return decoded
			}
		}
	}
	for _, p := range part.Parts {
		if len(p.Parts) > 0 {
			if body := extractBody(p); body != "" {
				return body
			}
		}
	}
	return ""
}

// decodeBody handles both padded and unpadded URL-safe base64, which the
// API mixes freely.
func decodeBody(data string) (string, error) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded), nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// replySubject prefixes Re: unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

// forwardSubject prefixes Fwd: unless the subject already carries it.
func forwardSubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "fwd:") {
		return subject
	}
	return "Fwd: " + subject
}

// buildForwardBody stitches the forwarded-message banner and the original
// body under optional introductory text.
func buildForwardBody(original *apiMessage, additionalText string) string {
	headers := headerMap(original.Payload)
	banner := fmt.Sprintf(`
---------- Forwarded message ---------
From: %s
Date: %s
Subject: %s
To: %s

`, headers["From"], headers["Date"], headers["Subject"], headers["To"])

	var b strings.Builder
	if additionalText != "" {
		b.WriteString(additionalText)
		b.WriteString("\n")
	}
	b.WriteString(banner)
	b.WriteString(extractBody(original.Payload))
	return b.String()
}

// buildReferences appends the replied-to Message-ID to the existing
// References chain per RFC 5322 threading.
func buildReferences(existing, messageID string) string {
	if messageID == "" {
		return existing
	}
	if existing == "" {
		return messageID
	}
	return existing + " " + messageID
}

// replyRecipients computes To/Cc for a reply. Reply-all folds the original
// To and Cc lists into Cc.
func replyRecipients(headers map[string]string, replyAll bool) (to, cc string) {
	to = headers["From"]
	if !replyAll {
		return to, ""
	}
	var ccList []string
	if headers["To"] != "" {
		ccList = append(ccList, headers["To"])
	}
	if headers["Cc"] != "" {
		ccList = append(ccList, headers["Cc"])
	}
	return to, strings.Join(ccList, ", ")
}
