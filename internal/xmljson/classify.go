package xmljson

import "strings"

// SealedSentinel is the literal name the proxy substitutes for participants
// whose identity a court has sealed. This is a best-effort heuristic: Tyler
// documents no enumeration of sentinel values, so only this one is matched.
const SealedSentinel = "**sealed**"

// attorneyRoleCode marks a case participant who appears as counsel rather
// than as a party.
const attorneyRoleCode = "ATTY"

// EntityOf returns the entity representation subtree of a case participant,
// the part that is shaped either like a person or like an organization.
func EntityOf(participant Node) Node {
	return participant.Chain("value", "entityRepresentation", "value")
}

// IsPerson reports whether a case participant is a natural person rather
// than an organization. The proxy carries no explicit type tag; the presence
// of personOtherIdentification is the only reliable discriminator between
// the two shapes.
func IsPerson(participant Node) bool {
	return !EntityOf(participant).Get("personOtherIdentification").IsZero()
}

// RoleCode returns the participant's raw role code, uppercased.
func RoleCode(participant Node) string {
	return strings.ToUpper(participant.Chain("value", "caseParticipantRoleCode", "value").Str())
}

// IsAttorney reports whether a case participant carries the attorney role.
// Attorneys are pulled out of the ordinary party stream because they carry
// representation links that parties do not.
func IsAttorney(participant Node) bool {
	return RoleCode(participant) == attorneyRoleCode
}

// IsSealedName reports whether a resolved full name is the sealed-record
// sentinel, compared case-insensitively.
func IsSealedName(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) == SealedSentinel
}

// IsRedactedEmail reports whether an email value looks redacted. The proxy
// blanks sealed emails into non-address strings, so anything without an "@"
// is treated as sealed rather than as an error.
func IsRedactedEmail(email string) bool {
	return email != "" && !strings.Contains(email, "@")
}
