package enums

type EventType string

const (
	EventReady            EventType = "READY"
	EventCommand          EventType = "COMMAND"
	EventFormSubmitted    EventType = "FORM_SUBMITTED"
	EventControlActivated EventType = "CONTROL_ACTIVATED"
	EventMemberJoined     EventType = "MEMBER_JOINED"
)
