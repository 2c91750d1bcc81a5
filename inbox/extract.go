package inbox

import (
	"encoding/base64"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

// maxPartNodes bounds the MIME tree walk. Message structures come from an
// untrusted provider feed; parts past the budget are ignored rather than
// failing the whole fetch.
const maxPartNodes = 10000

// ExtractBody walks the part tree depth-first in parts-array order and
// returns the first text/plain and first text/html leaves with inline
// data. Later duplicates at any depth are ignored.
func ExtractBody(root *gmailapi.MessagePart) (text, html string) {
	walkParts(root, func(part *gmailapi.MessagePart) bool {
		if part.Body == nil || part.Body.Data == "" {
			return true
		}
		switch part.MimeType {
		case "text/plain":
			if text == "" {
				text = decodeBody(part.Body.Data)
			}
		case "text/html":
			if html == "" {
				html = decodeBody(part.Body.Data)
			}
		}
		return text == "" || html == ""
	})
	return text, html
}

// ExtractAttachments collects every part carrying both a filename and a
// backend attachment ID, in traversal order. This pass is independent of
// body extraction: a part can be an attachment and still be skipped for
// the body.
func ExtractAttachments(root *gmailapi.MessagePart) []EmailAttachment {
	var out []EmailAttachment
	walkParts(root, func(part *gmailapi.MessagePart) bool {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			mimeType := part.MimeType
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}
			out = append(out, EmailAttachment{
				Filename:     part.Filename,
				MimeType:     mimeType,
				Size:         part.Body.Size,
				AttachmentID: part.Body.AttachmentId,
			})
		}
		return true
	})
	return out
}

// walkParts visits the tree depth-first with an explicit stack, stopping
// early when visit returns false or the node budget runs out.
func walkParts(root *gmailapi.MessagePart, visit func(*gmailapi.MessagePart) bool) {
	if root == nil {
		return
	}
	stack := []*gmailapi.MessagePart{root}
	visited := 0
	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++
		if visited > maxPartNodes {
			return
		}
		if !visit(part) {
			return
		}
		// Push children in reverse so they pop in parts-array order.
		for i := len(part.Parts) - 1; i >= 0; i-- {
			stack = append(stack, part.Parts[i])
		}
	}
}

// decodeBody decodes a base64url payload. Decoding is lossy, never fatal:
// undecodable payloads yield "", invalid UTF-8 bytes are replaced.
func decodeBody(data string) string {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return strings.ToValidUTF8(string(raw), "�")
}
