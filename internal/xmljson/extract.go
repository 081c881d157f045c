package xmljson

import (
	"strings"
	"time"
	"unicode"
)

// MissingDateSentinel is the timestamp used when a filing date is absent
// upstream: one second past the Unix epoch, obviously wrong to a human but
// still a valid date for display and sorting.
const MissingDateSentinel = int64(1000)

// PersonName holds the independently optional parts of a person's name.
type PersonName struct {
	First  string `json:"first,omitempty" yaml:"first,omitempty"`
	Middle string `json:"middle,omitempty" yaml:"middle,omitempty"`
	Last   string `json:"last,omitempty" yaml:"last,omitempty"`
}

// Full returns the name parts joined for display.
func (n PersonName) Full() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.First, n.Middle, n.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// TitleCaseIfUpper normalizes an all-caps name fragment ("SMITH") to title
// case ("Smith"). Fragments that already mix case ("McSmith") are left
// alone, since they were entered deliberately. The source data mixes both
// conventions court by court.
func TitleCaseIfUpper(s string) string {
	if len(s) <= 1 || s != strings.ToUpper(s) {
		return s
	}
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return s
	}
	var b strings.Builder
	startOfWord := true
	for _, r := range strings.ToLower(s) {
		if startOfWord && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(r)
			if !unicode.IsLetter(r) {
				startOfWord = true
			}
		}
	}
	return b.String()
}

// ExtractPersonName pulls the name parts out of a person-shaped entity
// representation. Each part is optional on its own.
func ExtractPersonName(entity Node) PersonName {
	name := entity.Get("personName")
	return PersonName{
		First:  TitleCaseIfUpper(name.Chain("personGivenName", "value").Str()),
		Middle: TitleCaseIfUpper(name.Chain("personMiddleName", "value").Str()),
		Last:   TitleCaseIfUpper(name.Chain("personSurName", "value").Str()),
	}
}

// Address is a mailing address. City, state, and zip are pointers so that a
// field entirely absent upstream stays distinguishable from one that was
// sent explicitly empty.
type Address struct {
	Street string  `json:"street,omitempty" yaml:"street,omitempty"`
	City   *string `json:"city,omitempty" yaml:"city,omitempty"`
	State  *string `json:"state,omitempty" yaml:"state,omitempty"`
	Zip    *string `json:"zip,omitempty" yaml:"zip,omitempty"`
}

// ExtractAddress converts a NIEM structured-address subtree into an Address.
// Returns nil when there is nothing usable in the subtree.
func ExtractAddress(addr Node) *Address {
	structured := addr.Chain("addressRepresentation", "value")
	if structured.IsZero() {
		return nil
	}
	out := &Address{}

	street := structured.Chain("locationStreet", "value")
	if full := street.Chain("streetFullText", "value").Str(); full != "" {
		out.Street = full
	} else {
		num := street.Chain("streetNumberText", "value").Str()
		name := street.Chain("streetName", "value").Str()
		out.Street = strings.TrimSpace(num + " " + name)
	}

	if city := structured.Get("locationCityName"); !city.IsZero() {
		v := city.Get("value").Str()
		out.City = &v
	}
	if state := structured.Chain("locationStateUSPostalServiceCode", "value"); !state.IsZero() {
		v := state.Get("value").Str()
		out.State = &v
	}
	if zip := structured.Get("locationPostalCode"); !zip.IsZero() {
		v := zip.Get("value").Str()
		out.Zip = &v
	}

	if out.Street == "" && out.City == nil && out.State == nil && out.Zip == nil {
		return nil
	}
	return out
}

// Telephone number sub-formats, discriminated by the JAXB element name.
const (
	fullPhoneName          = "FullTelephoneNumber"
	internationalPhoneName = "InternationalTelephoneNumber"
	nanpPhoneName          = "NANPTelephoneNumber"
)

// ExtractPhoneNumber reads a telephone-number subtree. NIEM defines three
// sub-formats, each with its own field layout, discriminated by the
// element's qualified name. An unrecognized discriminator yields "".
func ExtractPhoneNumber(phone Node) string {
	rep := phone.Get("telephoneNumberRepresentation")
	switch stripNamespace(rep.Get("name").Str()) {
	case fullPhoneName:
		return rep.Chain("value", "telephoneNumberFullID", "value").Str()
	case internationalPhoneName:
		country := rep.Chain("value", "telephoneCountryCodeID", "value").Str()
		number := rep.Chain("value", "telephoneNumberID", "value").Str()
		if country == "" {
			return number
		}
		return "+" + country + " " + number
	case nanpPhoneName:
		area := rep.Chain("value", "telephoneAreaCodeID", "value").Str()
		exchange := rep.Chain("value", "telephoneExchangeID", "value").Str()
		line := rep.Chain("value", "telephoneLineID", "value").Str()
		if area == "" && exchange == "" && line == "" {
			return ""
		}
		return area + "-" + exchange + "-" + line
	}
	return ""
}

// ExtractEmail reads a contact-email subtree. The second return is true
// when the value looks redacted (sealed courts blank the address into a
// non-email string), in which case the email itself is dropped.
func ExtractEmail(contact Node) (email string, redacted bool) {
	v := contact.Chain("contactEmailID", "value").Str()
	if v == "" {
		return "", false
	}
	if IsRedactedEmail(v) {
		return "", true
	}
	return v, false
}

// TimestampToTime interprets a Tyler timestamp, epoch milliseconds, as a
// UTC time.
func TimestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// DateRepToTime reads an ActivityDate-style subtree and returns the time it
// represents. The proxy nests the epoch-millisecond value a few levels deep
// and emits it as either a JSON number or a string. A missing value falls
// back to MissingDateSentinel so a case without a filing date still carries
// a valid, obviously-placeholder date.
func DateRepToTime(dateRep Node) time.Time {
	ms, ok := dateRep.Chain("dateRepresentation", "value", "value").Int64()
	if !ok {
		ms = MissingDateSentinel
	}
	return TimestampToTime(ms)
}
