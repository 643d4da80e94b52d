package model

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Template is a challenge family. Round 1 uses the template itself, later rounds use
// one of its variants.
type Template struct {
	ID         string
	Brief      string
	Checks     []Check
	Attachment *AttachmentSpec
	Variants   []TemplateVariant
}

// TemplateVariant is a follow up challenge of a template family.
type TemplateVariant struct {
	Brief      string
	Checks     []Check
	Attachment *AttachmentSpec
}

// AttachmentSpec declares a generated attachment.
type AttachmentSpec struct {
	Name      string
	Generator string
}

// Validate validates the template.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id is required: %w", ErrNotValid)
	}
	if t.Brief == "" {
		return fmt.Errorf("template %s brief is required: %w", t.ID, ErrNotValid)
	}
	if err := validateTemplateChecks(t.Checks); err != nil {
		return fmt.Errorf("template %s: %w", t.ID, err)
	}
	for i, v := range t.Variants {
		if v.Brief == "" {
			return fmt.Errorf("template %s variant %d brief is required: %w", t.ID, i, ErrNotValid)
		}
		if err := validateTemplateChecks(v.Checks); err != nil {
			return fmt.Errorf("template %s variant %d: %w", t.ID, i, err)
		}
	}
	return nil
}

// validateTemplateChecks validates template checks, a check without kind is classified
// at generation time.
func validateTemplateChecks(checks []Check) error {
	for _, c := range checks {
		if c.Kind == "" {
			if c.Text == "" {
				return fmt.Errorf("check text is required: %w", ErrNotValid)
			}
			continue
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EncodeDataURI returns a base64 data URI for the content.
func EncodeDataURI(mime string, content []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(content))
}

// DecodeDataURI decodes a data URI returning its mime type and content.
func DecodeDataURI(uri string) (mime string, content []byte, err error) {
	header, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return "", nil, fmt.Errorf("invalid data URI: %w", ErrNotValid)
	}

	header = strings.TrimPrefix(header, "data:")
	mime, params, _ := strings.Cut(header, ";")
	if params != "base64" {
		return mime, []byte(data), nil
	}

	content, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", ErrNotValid)
	}
	return mime, content, nil
}
