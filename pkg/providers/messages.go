package providers

import (
	"fmt"
	"strings"
)

// NormalizeRole trims and lowercases the role of the message at index and
// checks it against the canonical vocabulary.
func NormalizeRole(index int, role Role) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(string(role))))
	switch r {
	case RoleUser, RoleModel:
		return r, nil
	}
	return "", &ValidationError{
		Field:   fmt.Sprintf("messages[%d].role", index),
		Message: fmt.Sprintf("unsupported role %q at index %d: use %q or %q", string(role), index, RoleUser, RoleModel),
	}
}

// VendorRole maps a canonical role to the user/assistant vocabulary used by
// chat-completion style APIs.
func VendorRole(r Role) string {
	if r == RoleModel {
		return "assistant"
	}
	return "user"
}
