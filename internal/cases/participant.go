// Package cases turns the proxy's case documents into canonical records:
// cases, the people and organizations party to them, and the attorneys who
// represent those parties. Builders here never fail; they fill what the
// document supports and leave the rest zero, reporting fetch problems
// through a notify.Notifier instead of returning errors.
package cases

import (
	"github.com/openefiling/efmkit/internal/xmljson"
)

// Participant person types. ALIndividual matches the label the interview
// layer uses for natural persons.
const (
	PersonTypeIndividual = "ALIndividual"
	PersonTypeBusiness   = "business"
)

// Roles maps a participant role code to the full row from the codes
// service, as built by codes.ChoicesAndMap. Read-only from this package's
// perspective.
type Roles map[string]map[string]any

// Name returns the display label for a role code, or "" when unknown.
func (r Roles) Name(code string) string {
	return xmljson.Wrap(any(r[code])).Get("name").Str()
}

// Participant is one party to a case. Constructed once per detail fetch
// and not mutated afterwards, except for attorney cross-links which are
// filled in the same augmentation pass.
type Participant struct {
	// PersonType is PersonTypeIndividual or PersonTypeBusiness.
	PersonType string `json:"person_type" yaml:"person_type"`

	// Name holds the person's name parts. For organizations the single
	// organization name rides in First, which is the one display field
	// the interview layer reads for either shape.
	Name xmljson.PersonName `json:"name" yaml:"name"`

	// PartyType is the raw role code; PartyTypeName its resolved label.
	PartyType     string `json:"party_type,omitempty" yaml:"party_type,omitempty"`
	PartyTypeName string `json:"party_type_name,omitempty" yaml:"party_type_name,omitempty"`

	// TylerID is the proxy's participant identifier, the key used for all
	// cross-referencing.
	TylerID string `json:"tyler_id,omitempty" yaml:"tyler_id,omitempty"`

	Address     *xmljson.Address `json:"address,omitempty" yaml:"address,omitempty"`
	PhoneNumber string           `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	Email       string           `json:"email,omitempty" yaml:"email,omitempty"`

	// IsRedacted is set when the name resolves to the sealed sentinel or
	// the email field holds a non-address. Redacted name parts are cleared
	// entirely so placeholder text never displays as real data.
	IsRedacted bool `json:"is_redacted,omitempty" yaml:"is_redacted,omitempty"`

	// ExistingAttorneyIDs lists the tyler ids of attorneys already
	// representing this party, kept consistent with the case's
	// PartyToAttorneys map.
	ExistingAttorneyIDs []string `json:"existing_attorney_ids,omitempty" yaml:"existing_attorney_ids,omitempty"`
}

// Attorney is a Participant-like record sourced from the attorney subtree
// and keyed by tyler id rather than iterated as a case party.
type Attorney struct {
	Participant `yaml:",inline"`
}

// ParseParticipant fills a Participant from an
// xsd:CommonTypes-4.0:CaseParticipantType subtree.
func ParseParticipant(participant xmljson.Node, roles Roles) Participant {
	p := Participant{
		PartyType: participant.Chain("value", "caseParticipantRoleCode", "value").Str(),
	}
	p.PartyTypeName = roles.Name(p.PartyType)

	entity := xmljson.EntityOf(participant)
	if xmljson.IsPerson(participant) {
		p.PersonType = PersonTypeIndividual
		p.Name = xmljson.ExtractPersonName(entity)
		p.TylerID = entity.Get("personOtherIdentification").First().
			Chain("identificationID", "value").Str()
	} else {
		p.PersonType = PersonTypeBusiness
		p.Name.First = entity.Chain("organizationName", "value").Str()
		p.TylerID = entity.Chain("organizationIdentification", "value",
			"identification", 0, "identificationID", "value").Str()
	}

	contact := entity.Get("contactInformation").First()
	p.Address = xmljson.ExtractAddress(contact.Chain("contactMailingAddress", "value"))
	p.PhoneNumber = xmljson.ExtractPhoneNumber(contact.Chain("contactTelephoneNumber", "value"))

	email, emailRedacted := xmljson.ExtractEmail(contact)
	p.Email = email
	if emailRedacted {
		p.IsRedacted = true
	}

	if xmljson.IsSealedName(p.Name.Full()) {
		p.IsRedacted = true
		p.Name = xmljson.PersonName{}
	}
	return p
}

// ParseAttorney fills an Attorney from the same participant shape.
func ParseAttorney(participant xmljson.Node, roles Roles) Attorney {
	return Attorney{Participant: ParseParticipant(participant, roles)}
}
