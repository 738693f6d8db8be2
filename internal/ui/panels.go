package ui

import (
	"fmt"
	"strings"

	"github.com/ivankudzin/guildbot/internal/domain/model"
)

func RegisterCommand(name string) Command {
	return Command{
		Name:        name,
		Description: "Register for " + OrganizationName,
	}
}

func RegistrationForm() Form {
	return Form{
		CustomID: FormRegistrationID,
		Title:    "WMI Registration",
		Inputs: []TextInput{
			{CustomID: InputNameID, Label: "Name", Placeholder: "Enter your name", Required: true},
			{CustomID: InputEmailID, Label: "Email (Optional)", Placeholder: "Enter your email (optional)"},
		},
	}
}

func RoleSelectionReply(roleLabel, buttonID string) Reply {
	return Reply{
		Panel: &Panel{
			Title:       "Choose Your Role",
			Description: "Click the button below to select your role.",
			Color:       ColorGreen,
		},
		Buttons:   []Button{{Label: roleLabel, CustomID: buttonID}},
		Ephemeral: true,
	}
}

func RegistrationAuditPanel(reg model.Registration, roleLabel string) Panel {
	return Panel{
		Title: "New Registration",
		Description: fmt.Sprintf("**Name**: %s\n**Email**: %s\n**Date**: %s\n**Role**: %s",
			reg.Name,
			reg.DisplayEmail(),
			reg.SubmittedAt.UTC().Format(auditTimeLayout),
			roleLabel,
		),
		Color: ColorBlue,
	}
}

func RoleSelectedReply(roleLabel, inviteLink string) Reply {
	description := fmt.Sprintf("You selected the **%s** role! It will be assigned when you join the server.", roleLabel)
	if link := strings.TrimSpace(inviteLink); link != "" {
		description += fmt.Sprintf("\n\nJoin our server: [Click Here](%s)", link)
	}
	return Reply{
		Panel: &Panel{
			Title:       "Role Selected!",
			Description: description,
			Color:       ColorGreen,
		},
		Ephemeral: true,
	}
}

func WelcomePanel(memberID, videoURL string) Panel {
	panel := Panel{
		Title:       "Welcome to " + OrganizationName + "!",
		Description: fmt.Sprintf(welcomeBody, Mention(memberID)),
		Color:       ColorPurple,
		Footer:      OrganizationName,
	}
	if url := strings.TrimSpace(videoURL); url != "" {
		panel.Fields = append(panel.Fields, Field{
			Name:  "Welcome Video",
			Value: fmt.Sprintf("[Watch Here](%s)", url),
		})
	}
	return panel
}

func TextReply(text string) Reply {
	return Reply{Content: text, Ephemeral: true}
}

func Mention(userID string) string {
	return "<@" + userID + ">"
}
