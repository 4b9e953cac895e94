package storage

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// idPattern is the store's identifier format: 24 hexadecimal characters.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether candidate matches the store's identifier
// format. Strings that fail this check must never reach the storage layer.
func IsValidID(candidate string) bool {
	return idPattern.MatchString(candidate)
}

// ToObjectID converts an external identifier string to its internal form.
// Callers must check IsValidID first; an invalid candidate here is a
// programming error in the caller, not a recoverable condition.
func ToObjectID(candidate string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(candidate)
}

// FromObjectID converts an internal identifier to its external string
// form. The result is the canonical lowercase hex representation.
func FromObjectID(id primitive.ObjectID) string {
	return id.Hex()
}
