// Package i18n provides locale-specific message catalogs for error codes.
package i18n

import (
	"bytes"
	"text/template"
)

// Code mirrors the error code strings from internal/errors.
// They are duplicated as strings to avoid an import cycle.
type Code = string

// Catalog holds user-facing messages for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog's locale identifier.
func (c *Catalog) Locale() string {
	if c == nil {
		return ""
	}
	return c.locale
}

// Format renders the message for the given code, interpolating metadata
// through Go template syntax. Unknown codes fall back to the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	if c == nil {
		return code
	}
	message, ok := c.messages[code]
	if !ok {
		return code
	}
	if len(metadata) == 0 {
		return message
	}

	tmpl, err := template.New("message").Parse(message)
	if err != nil {
		return message
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return message
	}
	return buf.String()
}

// GetCatalog returns the catalog for the requested locale, defaulting to
// en-US when the locale is unknown.
func GetCatalog(locale string) *Catalog {
	switch locale {
	case "en-US", "":
		return enUSCatalog
	default:
		return enUSCatalog
	}
}
