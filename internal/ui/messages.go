package ui

const (
	ColorGreen  = 0x2ecc71
	ColorBlue   = 0x3498db
	ColorPurple = 0x9b59b6
)

const (
	FormRegistrationID = "wmi_registration"
	InputNameID        = "name"
	InputEmailID       = "email"
)

const (
	OrganizationName = "Wisteria Medical Institute"

	TextRejectForeignControl = "This button belongs to another member. Run the registration command yourself to pick a role."
	TextRoleNotFound         = "Error: Role not found."
	TextUnknownCommand       = "Unknown command."
	TextUnknownForm          = "This form is no longer supported. Run the registration command again."

	auditTimeLayout = "2006-01-02 15:04:05"
)

const welcomeBody = "Greetings, %s!\n\n" +
	"We’re thrilled to welcome you to **" + OrganizationName + "** — where knowledge meets compassion.\n\n" +
	"Thank you for choosing us as your academic home. Here, you'll grow, learn, and shape the future of medicine with a supportive and passionate community.\n\n" +
	"💡 If you need help or have any questions, don’t hesitate to ask!\n\n" +
	"Wishing you success on your medical journey!"
