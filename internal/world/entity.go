package world

// ID identifies an entity or an event. IDs are allocated monotonically.
type ID = uint64

// Kind categorizes an entity.
type Kind uint8

const (
	KindFaction Kind = iota + 1
	KindSettlement
	KindArmy
	KindRegion
	KindPerson
)

func (k Kind) String() string {
	switch k {
	case KindFaction:
		return "faction"
	case KindSettlement:
		return "settlement"
	case KindArmy:
		return "army"
	case KindRegion:
		return "region"
	case KindPerson:
		return "person"
	}
	return "unknown"
}

// RelKind names a relationship between two entities.
type RelKind string

const (
	RelMemberOf   RelKind = "member_of"
	RelLocatedIn  RelKind = "located_in"
	RelAdjacentTo RelKind = "adjacent_to"
	RelLeaderOf   RelKind = "leader_of"
	RelAtWar      RelKind = "at_war"
	RelAlly       RelKind = "ally"
	RelEnemy      RelKind = "enemy"
	RelTreatyWith RelKind = "treaty_with"
	RelTributeTo  RelKind = "tribute_to"
)

// Relationship is a directed, time-bounded edge from its owning entity.
type Relationship struct {
	Kind   RelKind    `json:"kind"`
	Target ID         `json:"target"`
	Start  Timestamp  `json:"start"`
	End    *Timestamp `json:"end,omitempty"`
}

// Active reports whether the relationship has not been ended.
func (r *Relationship) Active() bool {
	return r.End == nil
}

// Entity is a single record in the world store. Exactly one of the typed
// payload pointers is set, matching Kind.
type Entity struct {
	ID     ID         `json:"id"`
	Kind   Kind       `json:"kind"`
	Name   string     `json:"name"`
	Origin Timestamp  `json:"origin"`
	End    *Timestamp `json:"end,omitempty"`

	Rels []*Relationship `json:"-"`

	Faction    *FactionData    `json:"faction,omitempty"`
	Settlement *SettlementData `json:"settlement,omitempty"`
	Army       *ArmyData       `json:"army,omitempty"`
	Region     *RegionData     `json:"region,omitempty"`
	Person     *PersonData     `json:"person,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Alive reports whether the entity has not been ended.
func (e *Entity) Alive() bool {
	return e.End == nil
}

// ActiveRel returns the target of the first active relationship of kind.
func (e *Entity) ActiveRel(kind RelKind) (ID, bool) {
	for _, r := range e.Rels {
		if r.Kind == kind && r.Active() {
			return r.Target, true
		}
	}
	return 0, false
}

// HasActiveRel reports whether an active relationship of kind points at target.
func (e *Entity) HasActiveRel(kind RelKind, target ID) bool {
	for _, r := range e.Rels {
		if r.Kind == kind && r.Target == target && r.Active() {
			return true
		}
	}
	return false
}

// ActiveRels returns the distinct targets of every active relationship of kind,
// in the order they were added.
func (e *Entity) ActiveRels(kind RelKind) []ID {
	var out []ID
	for _, r := range e.Rels {
		if r.Kind != kind || !r.Active() {
			continue
		}
		dup := false
		for _, id := range out {
			if id == r.Target {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r.Target)
		}
	}
	return out
}
