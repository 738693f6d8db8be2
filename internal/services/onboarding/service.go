package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/guildbot/internal/domain/model"
	"github.com/ivankudzin/guildbot/internal/ui"
)

// Store holds role selections until the member joins the guild.
type Store interface {
	Put(userID, roleID string)
	Take(userID string) (model.PendingAssignment, bool)
	Len() int
}

// Platform is the outbound side of the chat platform.
type Platform interface {
	ShowForm(ctx context.Context, interaction model.Interaction, form ui.Form) error
	Respond(ctx context.Context, interaction model.Interaction, reply ui.Reply) error
	SendMessage(ctx context.Context, channelID string, reply ui.Reply) error
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	SyncCommands(ctx context.Context, commands []ui.Command) (int, error)
}

type Config struct {
	GuildID          string
	RoleID           string
	RoleLabel        string
	LogChannelID     string
	WelcomeChannelID string
	InviteLink       string
	WelcomeVideoURL  string
	RegisterCommand  string
}

type Service struct {
	store    Store
	platform Platform
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, platform Platform, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		platform: platform,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Commands() []ui.Command {
	return []ui.Command{ui.RegisterCommand(s.cfg.RegisterCommand)}
}

func (s *Service) HandleReady(ctx context.Context, event model.ReadyEvent) error {
	s.logger.Info("logged in",
		zap.String("bot_user_id", event.BotUserID),
		zap.String("bot_username", event.BotUsername),
		zap.Int("guilds", event.GuildCount),
	)

	synced, err := s.platform.SyncCommands(ctx, s.Commands())
	if err != nil {
		return fmt.Errorf("sync commands: %w", err)
	}

	s.logger.Info("synced commands", zap.Int("count", synced))
	return nil
}

func (s *Service) HandleCommand(ctx context.Context, event model.CommandEvent) error {
	if event.Name != s.cfg.RegisterCommand {
		return s.platform.Respond(ctx, event.Interaction, ui.TextReply(ui.TextUnknownCommand))
	}

	if err := s.platform.ShowForm(ctx, event.Interaction, ui.RegistrationForm()); err != nil {
		return fmt.Errorf("show registration form: %w", err)
	}
	return nil
}

// HandleFormSubmitted offers the role button to the submitting user and posts an
// audit entry. The store is written only when the button is pressed.
func (s *Service) HandleFormSubmitted(ctx context.Context, event model.FormSubmittedEvent) error {
	if event.FormID != ui.FormRegistrationID {
		if err := s.platform.Respond(ctx, event.Interaction, ui.TextReply(ui.TextUnknownForm)); err != nil {
			return fmt.Errorf("respond to unknown form %q: %w", event.FormID, err)
		}
		return fmt.Errorf("form %q: %w", event.FormID, ErrInvalidCustomID)
	}

	registration := model.Registration{
		UserID:      event.UserID,
		Name:        strings.TrimSpace(event.Name),
		Email:       strings.TrimSpace(event.Email),
		SubmittedAt: s.now().UTC(),
	}

	reply := ui.RoleSelectionReply(s.cfg.RoleLabel, RoleButtonCustomID(event.UserID))
	if err := s.platform.Respond(ctx, event.Interaction, reply); err != nil {
		return fmt.Errorf("respond with role selection: %w", err)
	}

	if strings.TrimSpace(s.cfg.LogChannelID) == "" {
		s.logger.Debug("log channel is not configured, skipping registration audit", zap.String("user_id", event.UserID))
		return nil
	}

	panel := ui.RegistrationAuditPanel(registration, s.cfg.RoleLabel)
	if err := s.platform.SendMessage(ctx, s.cfg.LogChannelID, ui.Reply{Panel: &panel}); err != nil {
		return fmt.Errorf("send registration audit: %w", err)
	}
	return nil
}

// HandleControlActivated records the role choice for the user the control was
// rendered for. Presses by anyone else are rejected without touching the store.
func (s *Service) HandleControlActivated(ctx context.Context, event model.ControlActivatedEvent) error {
	if event.ActivatorID == "" || event.ActivatorID != event.BoundUserID {
		s.logger.Info("rejected role control from another user",
			zap.String("activator_id", event.ActivatorID),
			zap.String("bound_user_id", event.BoundUserID),
		)
		return s.platform.Respond(ctx, event.Interaction, ui.TextReply(ui.TextRejectForeignControl))
	}

	if strings.TrimSpace(s.cfg.RoleID) == "" {
		s.logger.Error("role id is not configured")
		return s.platform.Respond(ctx, event.Interaction, ui.TextReply(ui.TextRoleNotFound))
	}

	s.store.Put(event.ActivatorID, s.cfg.RoleID)
	s.logger.Info("role selected",
		zap.String("user_id", event.ActivatorID),
		zap.String("role_id", s.cfg.RoleID),
		zap.Int("pending_assignments", s.store.Len()),
	)

	if err := s.platform.Respond(ctx, event.Interaction, ui.RoleSelectedReply(s.cfg.RoleLabel, s.cfg.InviteLink)); err != nil {
		return fmt.Errorf("respond with role confirmation: %w", err)
	}
	return nil
}

// HandleMemberJoined grants a pending role, if any, and then always sends the
// welcome message. A failed grant is logged and dropped.
func (s *Service) HandleMemberJoined(ctx context.Context, event model.MemberJoinedEvent) error {
	if s.cfg.GuildID != "" && event.GuildID != s.cfg.GuildID {
		s.logger.Debug("ignoring join from another guild", zap.String("guild_id", event.GuildID))
		return nil
	}

	if pending, ok := s.store.Take(event.MemberID); ok {
		s.grantPendingRole(ctx, event.GuildID, pending)
	}

	if strings.TrimSpace(s.cfg.WelcomeChannelID) == "" {
		s.logger.Warn("welcome channel is not configured, welcome not sent", zap.String("member_id", event.MemberID))
		return nil
	}

	panel := ui.WelcomePanel(event.MemberID, s.cfg.WelcomeVideoURL)
	if err := s.platform.SendMessage(ctx, s.cfg.WelcomeChannelID, ui.Reply{Panel: &panel}); err != nil {
		return fmt.Errorf("send welcome message: %w", err)
	}
	return nil
}

func (s *Service) grantPendingRole(ctx context.Context, guildID string, pending model.PendingAssignment) {
	fields := []zap.Field{
		zap.String("guild_id", guildID),
		zap.String("member_id", pending.UserID),
		zap.String("role_id", pending.RoleID),
		zap.Duration("pending_for", s.now().Sub(pending.SelectedAt)),
	}

	if err := s.platform.GrantRole(ctx, guildID, pending.UserID, pending.RoleID); err != nil {
		s.logger.Error("grant pending role", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("granted pending role", fields...)
}
