package mcp

import (
	"fmt"

	"github.com/louisbranch/atelier.space/internal/errors"
)

// failure turns a domain error into the user-facing message agents see.
// Error codes are rendered through the locale catalog; plain errors fall
// back to a generic message.
func failure(action string, err error) error {
	return fmt.Errorf("%s: %s", action, errors.UserMessage(err, ""))
}
