package model

// Interaction identifies a user-initiated platform event that expects a response.
type Interaction struct {
	ID    string
	AppID string
	Token string
}

type ReadyEvent struct {
	BotUserID   string
	BotUsername string
	GuildCount  int
}

type CommandEvent struct {
	Interaction Interaction
	GuildID     string
	UserID      string
	Name        string
}

type FormSubmittedEvent struct {
	Interaction Interaction
	GuildID     string
	UserID      string
	FormID      string
	Name        string
	Email       string
}

// ControlActivatedEvent is a button press. BoundUserID is the user the control
// was rendered for.
type ControlActivatedEvent struct {
	Interaction Interaction
	GuildID     string
	ActivatorID string
	BoundUserID string
}

type MemberJoinedEvent struct {
	GuildID  string
	MemberID string
}
