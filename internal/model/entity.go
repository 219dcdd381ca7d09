package model

// EntityType discriminates which entity fields of a ParsedEntity are meaningful
type EntityType string

const (
	EntityTask  EntityType = "task"
	EntityEvent EntityType = "event"
)

// Priority of a task entity
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Task categories assigned by the item keyword tables
const (
	CategoryEquipment = "equipment"
	CategoryHomework  = "homework"
	CategoryPayment   = "payment"
	CategoryGift      = "gift"
	CategoryOther     = "other"
)

// ParsedEntity represents one extracted intent from a message.
// A message may yield zero, one, or several of these.
type ParsedEntity struct {
	Intents    []string   `json:"intents"`
	Entities   Entities   `json:"entities"`
	Confidence float64    `json:"confidence"`
	Type       EntityType `json:"type"`
}

// Entities holds the structured fields pulled from the text. All fields are
// optional; absent fields are omitted from the JSON encoding.
type Entities struct {
	Date     *string  `json:"date,omitempty"`     // YYYY-MM-DD
	Time     *string  `json:"time,omitempty"`     // HH:MM, 24-hour
	Item     *string  `json:"item,omitempty"`     // concrete object/action
	Category *string  `json:"category,omitempty"` // equipment | homework | payment | gift | other
	Context  *string  `json:"context,omitempty"`  // event label
	Priority Priority `json:"priority,omitempty"` // normal | high
	Location *string  `json:"location,omitempty"`
}
