package models

import "time"

type WorkStatus string

const (
	WorkPending    WorkStatus = "pending"
	WorkInProgress WorkStatus = "in_progress"
	WorkCompleted  WorkStatus = "completed"
)

func ValidWorkStatus(s WorkStatus) bool {
	switch s {
	case WorkPending, WorkInProgress, WorkCompleted:
		return true
	default:
		return false
	}
}

// Work status only moves forward: pending -> in_progress -> completed.
func ValidWorkTransition(from, to WorkStatus) bool {
	switch from {
	case WorkPending:
		return to == WorkInProgress || to == WorkCompleted
	case WorkInProgress:
		return to == WorkCompleted
	default:
		return false
	}
}

type BuildingType string

const (
	BTDetached     BuildingType = "detached"
	BTSemiDetached BuildingType = "semi-detached"
	BTMidTerrace   BuildingType = "mid-terrace"
	BTApartment    BuildingType = "apartment"
	BTDuplex       BuildingType = "duplex"
	BTBungalow     BuildingType = "bungalow"
	BTMultiUnit    BuildingType = "multi-unit"
	BTOther        BuildingType = "other"
)

func ValidBuildingType(t BuildingType) bool {
	switch t {
	case BTDetached, BTSemiDetached, BTMidTerrace, BTApartment, BTDuplex, BTBungalow, BTMultiUnit, BTOther:
		return true
	default:
		return false
	}
}

// Job is a client-owned request for an energy assessment. A job promoted
// from a quote keeps a unique reference to its source quote, which is what
// makes repeated promotion an upsert instead of an insert.
type Job struct {
	Id                 string       `db:"id" json:"id"`
	ClientId           string       `db:"client_id" json:"clientId"`
	QuoteId            *string      `db:"quote_id" json:"quoteId,omitempty"`
	Status             WorkStatus   `db:"status" json:"status"`
	BuildingType       BuildingType `db:"building_type" json:"buildingType"`
	PropertyType       string       `db:"property_type" json:"propertyType"`
	PropertySize       string       `db:"property_size" json:"propertySize"`
	Bedrooms           string       `db:"bedrooms" json:"bedrooms"`
	AdditionalFeatures string       `db:"additional_features" json:"additionalFeatures,omitempty"`
	HeatPumpInstalled  string       `db:"heat_pump_installed" json:"heatPumpInstalled"`
	County             string       `db:"county" json:"county"`
	NearestTown        string       `db:"nearest_town" json:"nearestTown"`
	BerPurpose         string       `db:"ber_purpose" json:"berPurpose"`
	PreferredDate      string       `db:"preferred_date" json:"preferredDate"`
	PreferredTime      string       `db:"preferred_time" json:"preferredTime"`
	ContactName        string       `db:"contact_name" json:"contactName"`
	ContactEmail       string       `db:"contact_email" json:"contactEmail"`
	ContactMobile      string       `db:"contact_mobile" json:"contactMobile"`
	CreatedAt          time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time    `db:"updated_at" json:"-"`
}

// Quote is an anonymous request for an energy assessment: same descriptive
// fields as a job, but no owning client until promotion.
type Quote struct {
	Id                 string       `db:"id" json:"id"`
	Status             WorkStatus   `db:"status" json:"status"`
	BuildingType       BuildingType `db:"building_type" json:"buildingType,omitempty"`
	PropertyType       string       `db:"property_type" json:"propertyType,omitempty"`
	PropertySize       string       `db:"property_size" json:"propertySize,omitempty"`
	Bedrooms           string       `db:"bedrooms" json:"bedrooms,omitempty"`
	AdditionalFeatures string       `db:"additional_features" json:"additionalFeatures,omitempty"`
	HeatPumpInstalled  string       `db:"heat_pump_installed" json:"heatPumpInstalled,omitempty"`
	County             string       `db:"county" json:"county,omitempty"`
	NearestTown        string       `db:"nearest_town" json:"nearestTown,omitempty"`
	BerPurpose         string       `db:"ber_purpose" json:"berPurpose,omitempty"`
	PreferredDate      string       `db:"preferred_date" json:"preferredDate,omitempty"`
	PreferredTime      string       `db:"preferred_time" json:"preferredTime,omitempty"`
	ContactName        string       `db:"contact_name" json:"contactName,omitempty"`
	ContactEmail       string       `db:"contact_email" json:"contactEmail,omitempty"`
	ContactMobile      string       `db:"contact_mobile" json:"contactMobile,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time    `db:"updated_at" json:"-"`
}

// Complete reports whether every descriptive field a promoted job needs is
// filled in. Additional features stay optional.
func (q Quote) Complete() bool {
	required := []string{
		string(q.BuildingType),
		q.PropertyType,
		q.PropertySize,
		q.Bedrooms,
		q.HeatPumpInstalled,
		q.County,
		q.NearestTown,
		q.BerPurpose,
		q.PreferredDate,
		q.PreferredTime,
		q.ContactName,
		q.ContactEmail,
		q.ContactMobile,
	}
	for _, field := range required {
		if len(field) == 0 {
			return false
		}
	}
	return true
}
