package world

// EventKind categorizes a narrative event.
type EventKind string

const (
	EventWarDeclared      EventKind = "war_declared"
	EventTreatyBroken     EventKind = "treaty_broken"
	EventArmyMustered     EventKind = "army_mustered"
	EventArmyAttrition    EventKind = "army_attrition"
	EventArmyStatusUpdate EventKind = "army_status_update"
	EventArmyMoved        EventKind = "army_moved"
	EventArmyRetreated    EventKind = "army_retreated"
	EventArmyDisbanded    EventKind = "army_disbanded"
	EventBattle           EventKind = "battle"
	EventDeath            EventKind = "death"
	EventSiege            EventKind = "siege"
	EventSiegeEnded       EventKind = "siege_ended"
	EventSiegeAssaultFail EventKind = "siege_assault_failed"
	EventConquest         EventKind = "conquest"
	EventTreaty           EventKind = "treaty"
	EventTributePaid      EventKind = "tribute_paid"
	EventTributeEnded     EventKind = "tribute_ended"
	EventTributeDefaulted EventKind = "tribute_defaulted"
	EventWorldGenerated   EventKind = "world_generated"
)

// Role of an entity within an event.
type ParticipantRole string

const (
	RoleSubject     ParticipantRole = "subject"
	RoleObject      ParticipantRole = "object"
	RoleAttacker    ParticipantRole = "attacker"
	RoleDefender    ParticipantRole = "defender"
	RoleLocation    ParticipantRole = "location"
	RoleOrigin      ParticipantRole = "origin"
	RoleDestination ParticipantRole = "destination"
)

// Participant links an entity to an event.
type Participant struct {
	Entity ID              `json:"entity"`
	Role   ParticipantRole `json:"role"`
}

// Event is a human-readable record of a state transition.
type Event struct {
	ID           ID            `json:"id"`
	Kind         EventKind     `json:"kind"`
	Time         Timestamp     `json:"time"`
	Description  string        `json:"description"`
	CausedBy     *ID           `json:"caused_by,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
	Data         any           `json:"data,omitempty"`
}

// HasParticipant reports whether entity took part in the event with role.
func (e *Event) HasParticipant(entity ID, role ParticipantRole) bool {
	for _, p := range e.Participants {
		if p.Entity == entity && p.Role == role {
			return true
		}
	}
	return false
}

// Change records a field mutation caused by an event.
type Change struct {
	Entity ID     `json:"entity"`
	Event  ID     `json:"event"`
	Field  string `json:"field"`
	Old    any    `json:"old"`
	New    any    `json:"new"`
}
