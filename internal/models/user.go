package models

import "time"

type UserKind string

const (
	KindClient   UserKind = "client"
	KindAccessor UserKind = "accessor"
	KindAdmin    UserKind = "admin"
)

func ValidUserKind(k UserKind) bool {
	switch k {
	case KindClient, KindAccessor, KindAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	Id               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	FirstName        string    `db:"first_name" json:"firstName"`
	LastName         string    `db:"last_name" json:"lastName"`
	Phone            string    `db:"phone" json:"phone"`
	Kind             UserKind  `db:"kind" json:"kind"`
	Preference       string    `db:"preference" json:"preference,omitempty"`
	SEAIRegistration string    `db:"seai_registration" json:"seaiRegistration,omitempty"`
	VATRegistered    bool      `db:"vat_registered" json:"vatRegistered"`
	Insured          bool      `db:"insured" json:"insured"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

type Client struct {
	Id        string `db:"id" json:"id"`
	UserId    string `db:"user_id" json:"userId"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Address   string `db:"address" json:"address,omitempty"`
}

type Accessor struct {
	Id        string `db:"id" json:"id"`
	UserId    string `db:"user_id" json:"userId"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Address   string `db:"address" json:"address,omitempty"`
}

// PartyRef identifies one side of a notification without resorting to
// runtime type inspection: the kind tag plus the id of the client,
// accessor or admin user it points at.
type PartyRef struct {
	Kind UserKind `json:"kind"`
	Id   string   `json:"id"`
}

func ClientRef(id string) PartyRef   { return PartyRef{Kind: KindClient, Id: id} }
func AccessorRef(id string) PartyRef { return PartyRef{Kind: KindAccessor, Id: id} }
func AdminRef(id string) PartyRef    { return PartyRef{Kind: KindAdmin, Id: id} }
