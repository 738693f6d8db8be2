package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ivankudzin/guildbot/internal/domain/model"
	"github.com/ivankudzin/guildbot/internal/ui"
)

const intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

// ComponentUpdate is a message component press before its custom id is decoded.
type ComponentUpdate struct {
	Interaction model.Interaction
	GuildID     string
	UserID      string
	CustomID    string
}

// Handlers receive translated gateway events. Failures are the handler's to
// log; nothing is reported back to the gateway loop.
type Handlers struct {
	OnReady       func(context.Context, model.ReadyEvent)
	OnCommand     func(context.Context, model.CommandEvent)
	OnModalSubmit func(context.Context, model.FormSubmittedEvent)
	OnComponent   func(context.Context, ComponentUpdate)
	OnMemberJoin  func(context.Context, model.MemberJoinedEvent)
}

type Bot struct {
	session        *discordgo.Session
	commandGuildID string
	logger         *zap.Logger

	mu    sync.RWMutex
	appID string
}

// NewBot creates a session without connecting. Commands are synced globally
// unless commandGuildID limits them to a single guild.
func NewBot(token, commandGuildID string, logger *zap.Logger) (*Bot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = intents

	return &Bot{
		session:        session,
		commandGuildID: strings.TrimSpace(commandGuildID),
		logger:         logger,
	}, nil
}

// Listen registers handlers, opens the gateway and blocks until ctx is done.
func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.session == nil {
		return fmt.Errorf("discord bot is not initialized")
	}

	removers := []func(){
		b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			if r.User != nil {
				b.setAppID(r.User.ID)
			}
			dispatchReady(ctx, handlers, r)
		}),
		b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			dispatchInteraction(ctx, handlers, i)
		}),
		b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
			dispatchMemberAdd(ctx, handlers, m)
		}),
	}
	defer func() {
		for _, remove := range removers {
			remove()
		}
	}()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	b.logger.Info("discord gateway connected")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) ShowForm(ctx context.Context, interaction model.Interaction, form ui.Form) error {
	err := b.session.InteractionRespond(toInteraction(interaction), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: toModal(form),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("respond with modal: %w", err)
	}
	return nil
}

func (b *Bot) Respond(ctx context.Context, interaction model.Interaction, reply ui.Reply) error {
	err := b.session.InteractionRespond(toInteraction(interaction), toResponse(reply), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("respond to interaction: %w", err)
	}
	return nil
}

func (b *Bot) SendMessage(ctx context.Context, channelID string, reply ui.Reply) error {
	if strings.TrimSpace(channelID) == "" {
		return fmt.Errorf("channel id is required")
	}
	if _, err := b.session.ChannelMessageSendComplex(channelID, toMessageSend(reply), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send channel message: %w", err)
	}
	return nil
}

func (b *Bot) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := b.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add guild member role: %w", err)
	}
	return nil
}

// SyncCommands replaces the registered command set, so repeated calls are idempotent.
func (b *Bot) SyncCommands(ctx context.Context, commands []ui.Command) (int, error) {
	appID := b.currentAppID()
	if appID == "" {
		return 0, fmt.Errorf("application id is unknown before ready")
	}

	synced, err := b.session.ApplicationCommandBulkOverwrite(appID, b.commandGuildID, toApplicationCommands(commands), discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("bulk overwrite commands: %w", err)
	}
	return len(synced), nil
}

func (b *Bot) setAppID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appID = id
}

func (b *Bot) currentAppID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.appID
}

func dispatchReady(ctx context.Context, handlers Handlers, r *discordgo.Ready) {
	if handlers.OnReady == nil || r == nil {
		return
	}

	event := model.ReadyEvent{GuildCount: len(r.Guilds)}
	if r.User != nil {
		event.BotUserID = r.User.ID
		event.BotUsername = r.User.Username
	}
	handlers.OnReady(ctx, event)
}

func dispatchInteraction(ctx context.Context, handlers Handlers, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}

	interaction := model.Interaction{ID: i.ID, AppID: i.AppID, Token: i.Token}
	userID := interactionUserID(i.Interaction)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if handlers.OnCommand == nil {
			return
		}
		handlers.OnCommand(ctx, model.CommandEvent{
			Interaction: interaction,
			GuildID:     i.GuildID,
			UserID:      userID,
			Name:        i.ApplicationCommandData().Name,
		})
	case discordgo.InteractionModalSubmit:
		if handlers.OnModalSubmit == nil {
			return
		}
		data := i.ModalSubmitData()
		values := modalValues(data)
		handlers.OnModalSubmit(ctx, model.FormSubmittedEvent{
			Interaction: interaction,
			GuildID:     i.GuildID,
			UserID:      userID,
			FormID:      data.CustomID,
			Name:        values[ui.InputNameID],
			Email:       values[ui.InputEmailID],
		})
	case discordgo.InteractionMessageComponent:
		if handlers.OnComponent == nil {
			return
		}
		handlers.OnComponent(ctx, ComponentUpdate{
			Interaction: interaction,
			GuildID:     i.GuildID,
			UserID:      userID,
			CustomID:    i.MessageComponentData().CustomID,
		})
	}
}

func dispatchMemberAdd(ctx context.Context, handlers Handlers, m *discordgo.GuildMemberAdd) {
	if handlers.OnMemberJoin == nil || m == nil || m.Member == nil || m.User == nil {
		return
	}
	handlers.OnMemberJoin(ctx, model.MemberJoinedEvent{
		GuildID:  m.GuildID,
		MemberID: m.User.ID,
	})
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, component := range data.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
