package errors

import (
	"errors"

	"github.com/louisbranch/atelier.space/internal/errors/i18n"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// UserMessage formats a user-facing message for any error using the i18n
// catalog for the given locale, defaulting to en-US if the locale is empty.
// Non-domain errors produce a generic message.
func UserMessage(err error, locale string) string {
	if err == nil {
		return ""
	}

	if locale == "" {
		locale = DefaultLocale
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		catalog := i18n.GetCatalog(locale)
		return catalog.Format(string(appErr.Code), appErr.Metadata)
	}

	return "an unexpected error occurred"
}
