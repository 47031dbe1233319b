package domain

import "errors"

// DamageSource names one of the two commander damage counters an attacker
// can deal from. Partner covers both Partner and Background pairings.
type DamageSource string

const (
	SourcePrimary DamageSource = "primary"
	SourcePartner DamageSource = "partner"
)

// ErrInvalidDamageSource indicates a damage source outside the two counters.
var ErrInvalidDamageSource = errors.New("damage source must be primary or partner")

// PartnerSeparator joins the two commander names of a partner or background
// pair in the stored commander field.
const PartnerSeparator = " // "

// DamageEntry tracks commander damage received from a single attacker,
// split by source so partner pairs stay independently lethal-countable.
// A bare number never exists in this model; absent map entries mean zero.
type DamageEntry struct {
	Primary int `json:"primary"`
	Partner int `json:"partner"`
}

// Total returns the combined damage from both of the attacker's commanders.
func (d DamageEntry) Total() int {
	return d.Primary + d.Partner
}

// PlayerState holds one seat's live totals. Seat is the identity key and is
// never reassigned within a session; display rotation happens elsewhere.
type PlayerState struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Commander string `json:"commander"`
	// RowNumber is the remote placeholder row provisioned at live start.
	RowNumber int64 `json:"rowNumber"`
	// ColorIdentity holds WUBRG-ordered color letters, C when colorless.
	ColorIdentity []string `json:"colorIdentity,omitempty"`
	Bracket       string   `json:"bracket,omitempty"`
	Life          int      `json:"life"`
	Poison        int      `json:"poison"`
	// CommanderDamage maps attacker seat to the damage received from it.
	CommanderDamage map[int]DamageEntry `json:"commanderDamage"`
	Eliminated      bool                `json:"eliminated"`
	Winner          bool                `json:"winner"`
}

// DamageFrom returns the damage entry received from the attacker seat.
func (p PlayerState) DamageFrom(attacker int) DamageEntry {
	return p.CommanderDamage[attacker]
}

func (p PlayerState) clone() PlayerState {
	cloned := p
	if p.CommanderDamage != nil {
		cloned.CommanderDamage = make(map[int]DamageEntry, len(p.CommanderDamage))
		for seat, entry := range p.CommanderDamage {
			cloned.CommanderDamage[seat] = entry
		}
	}
	if p.ColorIdentity != nil {
		cloned.ColorIdentity = append([]string(nil), p.ColorIdentity...)
	}
	return cloned
}
