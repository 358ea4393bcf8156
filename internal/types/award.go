package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizedAward is one procurement award as produced by the collection layer.
// AwardAmount is the authoritative dollar value for every indicator.
type NormalizedAward struct {
	// Identity
	AwardID       string `json:"awardId"`
	InternalID    string `json:"internalId,omitempty"`
	ParentAwardID string `json:"parentAwardId,omitempty"`

	// Parties
	RecipientName     string `json:"recipientName"`
	RecipientUEI      string `json:"recipientUei,omitempty"`
	AwardingAgency    string `json:"awardingAgency"`
	AwardingSubAgency string `json:"awardingSubAgency,omitempty"`

	// Financials
	AwardAmount     float64 `json:"awardAmount"`
	TotalObligation float64 `json:"totalObligation,omitempty"`

	// Classification
	AwardType        string `json:"awardType,omitempty"`
	NAICSCode        string `json:"naicsCode,omitempty"`
	NAICSDescription string `json:"naicsDescription,omitempty"`
	PSCCode          string `json:"pscCode,omitempty"`
	PSCDescription   string `json:"pscDescription,omitempty"`
	SetAsideType     string `json:"setAsideType,omitempty"`
	Description      string `json:"description,omitempty"`

	// Dates, ISO-8601 ("2024-03-15" or a full timestamp).
	StartDate        string `json:"startDate,omitempty"`
	EndDate          string `json:"endDate,omitempty"`
	LastModifiedDate string `json:"lastModifiedDate,omitempty"`

	// Competition. ExtentCompeted is the USAspending code; empty means absent.
	ExtentCompeted         string         `json:"extentCompeted,omitempty"`
	NumberOfOffersReceived OptionalNumber `json:"numberOfOffersReceived"`

	// Modification rollups.
	ModificationCount       OptionalNumber `json:"modificationCount"`
	TotalModificationAmount OptionalNumber `json:"totalModificationAmount"`
}

// LookupKeys returns the non-empty identifiers an award can be referenced by.
func (a *NormalizedAward) LookupKeys() []string {
	var keys []string
	if a.AwardID != "" {
		keys = append(keys, a.AwardID)
	}
	if a.InternalID != "" && a.InternalID != a.AwardID {
		keys = append(keys, a.InternalID)
	}
	return keys
}

// Ref returns the identifier used in Signal.AffectedAwards: the external award
// id, falling back to the internal id.
func (a *NormalizedAward) Ref() string {
	if a.AwardID != "" {
		return a.AwardID
	}
	return a.InternalID
}

// RecipientKey returns the recipient's UEI when known, otherwise its name.
func (a *NormalizedAward) RecipientKey() string {
	if a.RecipientUEI != "" {
		return a.RecipientUEI
	}
	return a.RecipientName
}

// OptionalNumber is a nullable number. It decodes from a JSON number, a numeric
// string or null; a string that does not parse decodes as absent rather than
// failing the whole record.
type OptionalNumber struct {
	Value float64
	Valid bool
}

// Num returns a present OptionalNumber.
func Num(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*n = Num(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	*n = Num(f)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Transaction is one obligation action against an award.
type Transaction struct {
	ID                      string  `json:"id"`
	AwardID                 string  `json:"awardId"`
	ModificationNumber      string  `json:"modificationNumber"`
	ActionDate              string  `json:"actionDate,omitempty"`
	ActionType              string  `json:"actionType,omitempty"`
	FederalActionObligation float64 `json:"federalActionObligation"`
}

// administrativeActionTypes are FPDS action types that do not change scope.
var administrativeActionTypes = map[string]bool{
	"K": true, // close out
	"M": true, // other administrative action
}

// IsBase reports whether the transaction is the original award action.
func (t *Transaction) IsBase() bool {
	mod := strings.TrimSpace(t.ModificationNumber)
	return mod == "" || mod == "0"
}

// IsSubstantive reports whether the transaction is a modification that moved
// money for a non-administrative reason.
func (t *Transaction) IsSubstantive() bool {
	if t.IsBase() || t.FederalActionObligation == 0 {
		return false
	}
	return !administrativeActionTypes[strings.ToUpper(strings.TrimSpace(t.ActionType))]
}
