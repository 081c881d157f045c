package cases

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/openefiling/efmkit/internal/efm"
	"github.com/openefiling/efmkit/internal/notify"
	"github.com/openefiling/efmkit/internal/xmljson"
)

// Augmentation declaredType markers. The proxy attaches extension data to a
// case as a "rest" list of augmentations, each tagged with the Java type it
// was serialized from.
const (
	caseAugmentationType   = "tyler.ecf.extensions.common.CaseAugmentationType"
	appellateOriginalCase  = "AppellateCaseOriginalCase"
	tylerAugmentationHint  = "tyler.ecf"
)

// CaseFetcher is the slice of the proxy client the entity builders need.
type CaseFetcher interface {
	GetCase(ctx context.Context, courtID, trackingID string) efm.Response
}

// CaseRecord is the canonical view of one court case. It starts as a
// shallow stub from a search result and is hydrated by FetchCaseInfo,
// which fills the remaining fields from the expensive detail call.
type CaseRecord struct {
	TrackingID   string    `json:"tracking_id" yaml:"tracking_id"`
	DocketNumber string    `json:"docket_number,omitempty" yaml:"docket_number,omitempty"`
	Category     string    `json:"category,omitempty" yaml:"category,omitempty"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	CaseType     string    `json:"case_type,omitempty" yaml:"case_type,omitempty"`
	Date         time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// CourtID starts as the court that was searched and is overwritten
	// when the detail payload names a more specific sub-court; filing and
	// payment must target the specific court, not the general one.
	CourtID string `json:"court_id" yaml:"court_id"`

	// Appellate cases reference the lower-court case they come from.
	// Absent for trial-level cases, which is normal.
	LowerDocketNumber string `json:"lower_docket_number,omitempty" yaml:"lower_docket_number,omitempty"`
	LowerCaseTitle    string `json:"lower_case_title,omitempty" yaml:"lower_case_title,omitempty"`

	Participants []*Participant       `json:"participants,omitempty" yaml:"participants,omitempty"`
	Attorneys    map[string]*Attorney `json:"attorneys,omitempty" yaml:"attorneys,omitempty"`

	// PartyToAttorneys maps a party tyler id to the tyler ids of the
	// attorneys representing it. Valid only after hydration completes.
	PartyToAttorneys map[string][]string `json:"party_to_attorneys,omitempty" yaml:"party_to_attorneys,omitempty"`

	// Details keeps the raw detail payload for diagnostics and display.
	Details any `json:"-" yaml:"-"`

	// Hydrated marks a record whose detail fetch succeeded. A failed
	// fetch leaves it false so a later window shift can try again.
	Hydrated bool `json:"hydrated" yaml:"hydrated"`
}

// ParseCaseInfo builds a case stub from one search-result entry. With
// fetch set, the stub is hydrated immediately; otherwise hydration waits
// until the search window reaches it.
func ParseCaseInfo(ctx context.Context, fetcher CaseFetcher, entry any, courtID string, fetch bool, roles Roles, notifier notify.Notifier) *CaseRecord {
	e := xmljson.Wrap(entry)
	rec := &CaseRecord{
		CourtID:      courtID,
		TrackingID:   e.Chain("value", "caseTrackingID", "value").Str(),
		DocketNumber: e.Chain("value", "caseDocketID", "value").Str(),
		Category:     e.Chain("value", "caseCategoryText", "value").Str(),
	}
	if fetch {
		FetchCaseInfo(ctx, fetcher, rec, roles, notifier)
	}
	return rec
}

// FetchCaseInfo hydrates a case record from the detail endpoint: title,
// type, filing date, the participant and attorney lists, and the
// representation links between them. Hydration is idempotent; the
// participant state is rebuilt from scratch each time rather than
// accumulated. A non-ok fetch leaves the record with default fields and
// reports through the notifier; it never returns an error.
func FetchCaseInfo(ctx context.Context, fetcher CaseFetcher, rec *CaseRecord, roles Roles, notifier notify.Notifier) {
	rec.Participants = nil
	rec.Attorneys = make(map[string]*Attorney)
	rec.PartyToAttorneys = make(map[string][]string)
	rec.Hydrated = false

	resp := fetcher.GetCase(ctx, rec.CourtID, rec.TrackingID)
	if !resp.IsOk() {
		if notifier != nil {
			notifier.Error(
				fmt.Sprintf("couldn't get case details for case %s in %s", rec.TrackingID, rec.CourtID),
				&resp)
		}
		return
	}

	detail := xmljson.Wrap(resp.Data)
	rec.Details = resp.Data
	rec.Title = repairTitle(detail.Chain("value", "caseTitleText", "value").Str())
	rec.Date = xmljson.DateRepToTime(detail.Chain("value", "activityDateRepresentation", "value"))

	// A criminal or appellate detail payload can name a more specific
	// sub-court than the one searched.
	if specific := detail.Chain("value", "caseCourt", "organizationIdentification", "identificationID", "value").Str(); specific != "" {
		rec.CourtID = specific
	}

	for _, raw := range detail.Chain("value", "rest").Slice() {
		aug := xmljson.Wrap(raw)
		declared := aug.Get("declaredType").Str()
		switch {
		case strings.Contains(declared, appellateOriginalCase):
			rec.LowerDocketNumber = aug.Chain("value", "caseDocketID", "value").Str()
			rec.LowerCaseTitle = aug.Chain("value", "caseTitleText", "value").Str()
		case declared == caseAugmentationType:
			rec.parseAugmentation(aug, roles)
		}
	}
	rec.Hydrated = true
}

// parseAugmentation consumes the Tyler case augmentation: case type,
// participants split into ordinary parties and attorneys, and the
// attorney-to-party representation links. The map and each party's
// ExistingAttorneyIDs are filled in this same pass so they stay
// consistent.
func (rec *CaseRecord) parseAugmentation(aug xmljson.Node, roles Roles) {
	if t := aug.Chain("value", "caseTypeText", "value").Str(); t != "" {
		rec.CaseType = t
	}

	for _, raw := range aug.Chain("value", "caseParticipant").Slice() {
		participant := xmljson.Wrap(raw)
		if xmljson.IsAttorney(participant) {
			atty := ParseAttorney(participant, roles)
			if atty.TylerID != "" {
				rec.Attorneys[atty.TylerID] = &atty
			}
			continue
		}
		p := ParseParticipant(participant, roles)
		rec.Participants = append(rec.Participants, &p)
	}

	for _, raw := range aug.Chain("value", "caseOtherEntityAttorney").Slice() {
		entity := xmljson.Wrap(raw)
		attorneyID := entity.Chain("value", "roleOfPersonReference", "ref").Str()
		if attorneyID == "" {
			continue
		}
		for _, ref := range entity.Chain("value", "caseRepresentedPartyReference").Slice() {
			partyID := xmljson.Wrap(ref).Get("ref").Str()
			if partyID == "" {
				continue
			}
			rec.PartyToAttorneys[partyID] = append(rec.PartyToAttorneys[partyID], attorneyID)
			for _, p := range rec.Participants {
				if p.TylerID == partyID {
					p.ExistingAttorneyIDs = append(p.ExistingAttorneyIDs, attorneyID)
				}
			}
		}
	}
}

// Known upstream formatting defects: the case-management system sometimes
// glues title fragments together without spaces. Both fixes are cosmetic
// best effort, not correctness guarantees.
var (
	estateTitlePattern = regexp.MustCompile(`(\S)(In the Matter of the Estate of)`)
	gluedVsPattern     = regexp.MustCompile(`([a-z])vs([A-Z])`)
)

func repairTitle(title string) string {
	title = estateTitlePattern.ReplaceAllString(title, "$1 $2")
	title = gluedVsPattern.ReplaceAllString(title, "$1 vs $2")
	return title
}

// Label renders a case for a selection list: docket number, title, and the
// filing date when it is sane. Absurd dates (the missing-date sentinel
// lands in 1970) are not shown.
func (rec *CaseRecord) Label() string {
	out := strings.TrimSpace(rec.DocketNumber + " " + rec.Title)
	if !rec.Date.IsZero() && rec.Date.Year() > 1970 {
		out += " (" + rec.Date.Format("2006-01-02") + ")"
	}
	return out
}
