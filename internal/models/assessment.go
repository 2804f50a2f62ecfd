package models

import "time"

// Assessment is the BER survey form filled in by the accessor over the
// lifetime of a project. It is created empty alongside a project (or ahead
// of time for a quote) and only ever mutated, never deleted.
//
// The form is a flat set of columns mirroring the paper survey sheet; the
// workflow only ever touches the reference fields at the top.
type Assessment struct {
	Id         string  `db:"id" json:"id"`
	ProjectId  *string `db:"project_id" json:"projectId,omitempty"`
	QuoteId    *string `db:"quote_id" json:"quoteId,omitempty"`
	ClientId   *string `db:"client_id" json:"clientId,omitempty"`
	AccessorId *string `db:"accessor_id" json:"accessorId,omitempty"`

	AssessorName string `db:"assessor_name" json:"assessorName,omitempty"`
	BerRegNo     string `db:"ber_reg_no" json:"berRegNo,omitempty"`
	SurveyDate   string `db:"survey_date" json:"surveyDate,omitempty"`

	// Property details
	NumStoreys      *int   `db:"num_storeys" json:"numStoreys,omitempty"`
	NumBedrooms     *int   `db:"num_bedrooms" json:"numBedrooms,omitempty"`
	NumExtensions   *int   `db:"num_extensions" json:"numExtensions,omitempty"`
	PropertyAddress string `db:"property_address" json:"propertyAddress,omitempty"`
	Eircode         string `db:"eircode" json:"eircode,omitempty"`
	MPRN            string `db:"mprn" json:"mprn,omitempty"`

	// Dwelling type
	DetachedHouse        bool `db:"detached_house" json:"detachedHouse"`
	SemiDetachedHouse    bool `db:"semi_detached_house" json:"semiDetachedHouse"`
	EndOfTerrace         bool `db:"end_of_terrace" json:"endOfTerrace"`
	MidTerrace           bool `db:"mid_terrace" json:"midTerrace"`
	GroundFloorApartment bool `db:"ground_floor_apartment" json:"groundFloorApartment"`
	MidFloorApartment    bool `db:"mid_floor_apartment" json:"midFloorApartment"`
	TopFloorApartment    bool `db:"top_floor_apartment" json:"topFloorApartment"`
	BasementApartment    bool `db:"basement_apartment" json:"basementApartment"`
	Maisonette           bool `db:"maisonette" json:"maisonette"`

	// Age of main dwelling
	Pre1900         bool `db:"pre_1900" json:"pre1900"`
	Y1900To1929     bool `db:"y1900_1929" json:"y1900To1929"`
	Y1930To1949     bool `db:"y1930_1949" json:"y1930To1949"`
	Y1950To1966     bool `db:"y1950_1966" json:"y1950To1966"`
	Y1967To1977     bool `db:"y1967_1977" json:"y1967To1977"`
	Y1978To1982     bool `db:"y1978_1982" json:"y1978To1982"`
	Y1983To1993     bool `db:"y1983_1993" json:"y1983To1993"`
	Y1994To1999     bool `db:"y1994_1999" json:"y1994To1999"`
	From2000Onwards bool `db:"from_2000_onwards" json:"from2000Onwards"`

	// Type and purpose of rating
	NewFinalDwelling     bool   `db:"new_final_dwelling" json:"newFinalDwelling"`
	ExistingDwelling     bool   `db:"existing_dwelling" json:"existingDwelling"`
	NewOwnerOccupation   bool   `db:"new_owner_occupation" json:"newOwnerOccupation"`
	Sale                 bool   `db:"sale" json:"sale"`
	PrivateLetting       bool   `db:"private_letting" json:"privateLetting"`
	SocialHousingLetting bool   `db:"social_housing_letting" json:"socialHousingLetting"`
	GrantSupport         bool   `db:"grant_support" json:"grantSupport"`
	MajorRenovation      bool   `db:"major_renovation" json:"majorRenovation"`
	PurposeOther         bool   `db:"purpose_other" json:"purposeOther"`
	PurposeOtherText     string `db:"purpose_other_text" json:"purposeOtherText,omitempty"`

	// Wall construction, main dwelling
	WallStone               bool   `db:"wall_stone" json:"wallStone"`
	WallSolidBrick          bool   `db:"wall_solid_brick" json:"wallSolidBrick"`
	WallCavity              bool   `db:"wall_cavity" json:"wallCavity"`
	WallSolidConcrete       bool   `db:"wall_solid_concrete" json:"wallSolidConcrete"`
	WallHollowBlock         bool   `db:"wall_hollow_block" json:"wallHollowBlock"`
	WallTimberFrame         bool   `db:"wall_timber_frame" json:"wallTimberFrame"`
	WallOther               bool   `db:"wall_other" json:"wallOther"`
	WallOtherText           string `db:"wall_other_text" json:"wallOtherText,omitempty"`
	WallInsulationThickness string `db:"wall_insulation_thickness" json:"wallInsulationThickness,omitempty"`

	// Roof construction and insulation, main dwelling
	RoofPitchedInsulationJoists  bool     `db:"roof_pitched_insulation_joists" json:"roofPitchedInsulationJoists"`
	RoofPitchedInsulationRafters bool     `db:"roof_pitched_insulation_rafters" json:"roofPitchedInsulationRafters"`
	RoofFlatInsulationIntegral   bool     `db:"roof_flat_insulation_integral" json:"roofFlatInsulationIntegral"`
	RoomInRoof                   bool     `db:"room_in_roof" json:"roomInRoof"`
	NoHeatLossRoof               bool     `db:"no_heat_loss_roof" json:"noHeatLossRoof"`
	RoofOther                    bool     `db:"roof_other" json:"roofOther"`
	RoofOtherText                string   `db:"roof_other_text" json:"roofOtherText,omitempty"`
	RoofInsulationThickness      *float64 `db:"roof_insulation_thickness" json:"roofInsulationThickness,omitempty"`
	RoofInsulationFibre          bool     `db:"roof_insulation_fibre" json:"roofInsulationFibre"`
	RoofInsulationWarmcell       bool     `db:"roof_insulation_warmcell" json:"roofInsulationWarmcell"`
	RoofInsulationEPS            bool     `db:"roof_insulation_eps" json:"roofInsulationEPS"`
	RoofInsulationDense          bool     `db:"roof_insulation_dense" json:"roofInsulationDense"`

	// Ground floor construction, main dwelling
	FloorSolid     bool `db:"floor_solid" json:"floorSolid"`
	FloorSuspended bool `db:"floor_suspended" json:"floorSuspended"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
