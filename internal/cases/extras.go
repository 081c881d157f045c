package cases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/openefiling/efmkit/internal/codes"
	"github.com/openefiling/efmkit/internal/efm"
	"github.com/openefiling/efmkit/internal/notify"
	"github.com/openefiling/efmkit/internal/xmljson"
)

// CourtInfoProxy is the slice of the proxy client the court helpers need.
type CourtInfoProxy interface {
	GetCourt(ctx context.Context, courtID string) efm.Response
	GetPolicy(ctx context.Context, courtID string) efm.Response
}

// GetFullCourtInfo returns everything the proxy knows about a court, or an
// empty map (with the failure reported) when the call fails.
func GetFullCourtInfo(ctx context.Context, proxy CourtInfoProxy, courtID string, notifier notify.Notifier) map[string]any {
	resp := proxy.GetCourt(ctx, courtID)
	if !resp.IsOk() {
		if notifier != nil {
			notifier.Error(fmt.Sprintf("couldn't get full court info for %s", courtID), &resp)
		}
		return map[string]any{}
	}
	if m := xmljson.Wrap(resp.Data).Map(); m != nil {
		return m
	}
	return map[string]any{}
}

// scaleByteUnits converts a policy size figure to bytes. The unit labels
// are from the court policy schema; NIEM suggests courts may not be
// consistent about them, so unrecognized units pass the value through.
func scaleByteUnits(value int64, unit string) int64 {
	switch {
	case strings.EqualFold(unit, "kilobyte") || unit == "kB":
		return value * 1000
	case unit == "KB" || unit == "KiB":
		return value * 1024
	case unit == "MB":
		return value * 1000 * 1000
	}
	return value
}

// GetMaxAllowedSizes returns a court's attachment and message size limits
// in bytes. ok is false when the policy call fails.
func GetMaxAllowedSizes(ctx context.Context, proxy CourtInfoProxy, courtID string) (attachmentMax, messageMax int64, ok bool) {
	resp := proxy.GetPolicy(ctx, courtID)
	if !resp.IsOk() {
		return 0, 0, false
	}
	devParams := xmljson.Chain(resp.Data, "developmentPolicyParameters", "value")
	attachmentMax = measureInBytes(devParams.Get("maximumAllowedAttachmentSize"))
	messageMax = measureInBytes(devParams.Get("maximumAllowedMessageSize"))
	return attachmentMax, messageMax, true
}

func measureInBytes(measure xmljson.Node) int64 {
	value, _ := measure.Chain("measureValue", "value", "value").Int64()
	unit := measure.Chain("measureUnitText", "value").Str()
	return scaleByteUnits(value, unit)
}

// FeeTotal reads the total filing fee from a fee-calculation response.
// Returns nil when the response carries no usable amount.
func FeeTotal(resp efm.Response) *float64 {
	amount, ok := xmljson.Chain(resp.Data, "feesCalculationAmount", "value").Float64()
	if !ok {
		return nil
	}
	return &amount
}

// PartiesToChoices pulls the party selection list straight out of a raw
// case document: tyler id and display name per participant, without
// building full records. Used where an interview only needs "who is party
// to this case."
func PartiesToChoices(caseXML any) []codes.Option {
	rest := xmljson.Chain(caseXML, "value", "rest").Slice()
	var participants []any
	for _, raw := range rest {
		if strings.Contains(xmljson.Wrap(raw).Get("declaredType").Str(), tylerAugmentationHint) {
			participants = xmljson.Wrap(raw).Chain("value", "caseParticipant").Slice()
			break
		}
	}
	return lo.FilterMap(participants, func(raw any, _ int) (codes.Option, bool) {
		participant := xmljson.Wrap(raw)
		entity := xmljson.EntityOf(participant)
		var id, label string
		if xmljson.IsPerson(participant) {
			id = entity.Chain("personOtherIdentification", 0, "identificationID", "value").Str()
			label = xmljson.ExtractPersonName(entity).Full()
		} else {
			id = entity.Chain("organizationIdentification", "value",
				"identification", 0, "identificationID", "value").Str()
			label = entity.Chain("organizationName", "value").Str()
		}
		if id == "" {
			return codes.Option{}, false
		}
		return codes.Option{Code: id, Label: label}, true
	})
}

// paymentLabel renders one payment account for a selection list.
func paymentLabel(acc xmljson.Node) string {
	name := acc.Get("accountName").Str()
	switch acc.Get("paymentAccountTypeCode").Str() {
	case "CC":
		return fmt.Sprintf("%s (%s, %s)", name,
			acc.Chain("cardType", "value").Str(), acc.Get("cardLast4").Str())
	case "WV":
		return fmt.Sprintf("%s (Waiver account)", name)
	default:
		return fmt.Sprintf("%s (%s)", name, acc.Get("paymentAccountTypeCode").Str())
	}
}

// PaymentAccountLabels maps payment account ids to display labels, or nil
// when the response has no data.
func PaymentAccountLabels(resp efm.Response) map[string]string {
	accounts := xmljson.Wrap(resp.Data).Slice()
	if accounts == nil {
		return nil
	}
	labels := make(map[string]string, len(accounts))
	for _, raw := range accounts {
		acc := xmljson.Wrap(raw)
		labels[acc.Get("paymentAccountID").Str()] = paymentLabel(acc)
	}
	return labels
}

// FilterPaymentAccounts returns the active payment accounts usable at a
// court: non-card accounts always, card accounts only when the card type
// is accepted there.
func FilterPaymentAccounts(accountList []any, allowableCardTypes []string) []codes.Option {
	allowedCard := func(acc xmljson.Node) bool {
		if acc.Get("paymentAccountTypeCode").Str() != "CC" {
			return true
		}
		return lo.Contains(allowableCardTypes, acc.Chain("cardType", "value").Str())
	}
	return lo.FilterMap(accountList, func(raw any, _ int) (codes.Option, bool) {
		acc := xmljson.Wrap(raw)
		if !acc.Chain("active", "value").Bool() || !allowedCard(acc) {
			return codes.Option{}, false
		}
		return codes.Option{Code: acc.Get("paymentAccountID").Str(), Label: paymentLabel(acc)}, true
	})
}

// FilingIDAndLabel styles for the map key.
const (
	FilingStyleFilingID   = "FILING_ID"
	FilingStyleTrackingID = "TRACKING_ID"
)

// FilingIDAndLabel renders one filing from a filing list as an id-to-label
// entry for a selection list. The filing id historically sits in the
// second documentIdentification entry; a filing without one gets a
// placeholder id rather than an error.
func FilingIDAndLabel(filing any, style string) map[string]string {
	f := xmljson.Wrap(filing)
	trackingID := f.Chain("caseTrackingID", "value").Str()
	filingID := f.Chain("documentIdentification", 1, "identificationID", "value").Str()
	if filingID == "" {
		filingID = "id-not-found"
	}
	filerName := f.Chain("documentSubmitter", "entityRepresentation", "value",
		"personName", "personFullName", "value").Str()
	description := f.Chain("documentDescriptionText", "value").Str()

	// The plain-English filing code hides in a category list keyed by
	// qualified element name.
	var filingCode string
	for _, raw := range f.Get("documentCategoryText").Slice() {
		category := xmljson.Wrap(raw)
		if strings.HasSuffix(category.Get("name").Str(), "}FilingCode") {
			filingCode = category.Chain("value", "value").Str()
			break
		}
	}

	filedDate := xmljson.DateRepToTime(f.Get("documentFiledDate"))
	label := fmt.Sprintf("%s - %s (%s) %s",
		filerName, description, filingCode, filedDate.Format("2006-01-02"))

	if style == FilingStyleTrackingID {
		return map[string]string{trackingID: label}
	}
	return map[string]string{filingID: label}
}

// UserProxy is the slice of the proxy client the role helpers need.
type UserProxy interface {
	GetUser(ctx context.Context, id string) efm.Response
}

// GetTylerRoles reports whether the logged-in user is a firm admin, and
// whether they are additionally a global admin (listed in the deployment's
// global-admin allowlist, which gates editing global payment methods).
func GetTylerRoles(ctx context.Context, proxy UserProxy, userID string, globalAdmins []string) (isAdmin, isGlobalAdmin bool) {
	resp := proxy.GetUser(ctx, userID)
	if resp.Data == nil {
		return false, false
	}
	user := xmljson.Wrap(resp.Data)
	isAdmin = lo.SomeBy(user.Get("role").Slice(), func(raw any) bool {
		return xmljson.Wrap(raw).Get("roleName").Str() == "FIRM_ADMIN"
	})
	isGlobalAdmin = isAdmin && lo.Contains(globalAdmins, user.Get("email").Str())
	return isAdmin, isGlobalAdmin
}

// AnyMissingPartyTypes reports whether a court's required party types are
// not all covered by the given parties, meaning the interview still has
// roles to assign.
func AnyMissingPartyTypes(partyTypeMap map[string]map[string]any, parties []*Participant) bool {
	for _, pType := range partyTypeMap {
		row := xmljson.Wrap(pType)
		if !row.Get("isrequired").Bool() {
			continue
		}
		code := row.Get("code").Str()
		covered := lo.SomeBy(parties, func(p *Participant) bool {
			return p != nil && p.PartyType == code
		})
		if !covered {
			return true
		}
	}
	return false
}

// MatchingTupleOption returns the code of the first option whose label
// contains the given text, case-insensitively, or "" when none does.
func MatchingTupleOption(text string, options []codes.Option) string {
	want := strings.ToLower(text)
	match, ok := lo.Find(options, func(opt codes.Option) bool {
		return strings.Contains(strings.ToLower(opt.Label), want)
	})
	if !ok {
		return ""
	}
	return match.Code
}
