package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/ivankudzin/guildbot/internal/domain/model"
	"github.com/ivankudzin/guildbot/internal/ui"
)

func toInteraction(interaction model.Interaction) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:    interaction.ID,
		AppID: interaction.AppID,
		Token: interaction.Token,
	}
}

func toEmbed(panel ui.Panel) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       panel.Title,
		Description: panel.Description,
		Color:       panel.Color,
	}
	if panel.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: panel.Footer}
	}
	for _, field := range panel.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	return embed
}

func buildButtonRow(buttons []ui.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}

	row := make([]discordgo.MessageComponent, 0, len(buttons))
	for _, button := range buttons {
		row = append(row, discordgo.Button{
			Label:    button.Label,
			Style:    discordgo.PrimaryButton,
			CustomID: button.CustomID,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: row}}
}

func toModal(form ui.Form) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(form.Inputs))
	for _, input := range form.Inputs {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    input.CustomID,
					Label:       input.Label,
					Style:       discordgo.TextInputShort,
					Placeholder: input.Placeholder,
					Required:    input.Required,
				},
			},
		})
	}

	return &discordgo.InteractionResponseData{
		CustomID:   form.CustomID,
		Title:      form.Title,
		Components: rows,
	}
}

func toResponse(reply ui.Reply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{
		Content:    reply.Content,
		Components: buildButtonRow(reply.Buttons),
	}
	if reply.Panel != nil {
		data.Embeds = []*discordgo.MessageEmbed{toEmbed(*reply.Panel)}
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func toMessageSend(reply ui.Reply) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{
		Content:    reply.Content,
		Components: buildButtonRow(reply.Buttons),
	}
	if reply.Panel != nil {
		msg.Embeds = []*discordgo.MessageEmbed{toEmbed(*reply.Panel)}
	}
	return msg
}

func toApplicationCommands(commands []ui.Command) []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, command := range commands {
		out = append(out, &discordgo.ApplicationCommand{
			Name:        command.Name,
			Description: command.Description,
		})
	}
	return out
}
