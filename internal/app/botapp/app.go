package botapp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivankudzin/guildbot/internal/config"
	"github.com/ivankudzin/guildbot/internal/domain/enums"
	"github.com/ivankudzin/guildbot/internal/domain/model"
	"github.com/ivankudzin/guildbot/internal/infra/discord"
	"github.com/ivankudzin/guildbot/internal/services/onboarding"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	bot        *discord.Bot
	onboarding *onboarding.Service
}

func New(cfg config.Config, store onboarding.Store, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("pending store is nil")
	}

	if cfg.Guild.WelcomeChannelID == "" {
		logger.Warn("no welcome or log channel configured, welcome messages are disabled")
	}

	bot, err := discord.NewBot(cfg.Bot.Token, cfg.Bot.CommandGuildID, logger)
	if err != nil {
		return nil, fmt.Errorf("init discord bot: %w", err)
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		bot:        bot,
		onboarding: onboarding.NewService(store, bot, OnboardingConfig(cfg), logger),
	}, nil
}

func OnboardingConfig(cfg config.Config) onboarding.Config {
	return onboarding.Config{
		GuildID:          cfg.Guild.ID,
		RoleID:           cfg.Guild.RoleID,
		RoleLabel:        cfg.Guild.RoleLabel,
		LogChannelID:     cfg.Guild.LogChannelID,
		WelcomeChannelID: cfg.Guild.WelcomeChannelID,
		InviteLink:       cfg.Links.Invite,
		WelcomeVideoURL:  cfg.Links.WelcomeVideo,
		RegisterCommand:  cfg.Bot.RegisterCommand,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started",
		zap.String("guild_id", a.cfg.Guild.ID),
		zap.String("command_guild_id", a.cfg.Bot.CommandGuildID),
	)
	if err := a.bot.Listen(ctx, a.handlers()); err != nil {
		return err
	}
	a.logger.Info("bot app stopped")
	return nil
}

// handlers is the dispatch table from platform event to onboarding handler.
func (a *App) handlers() discord.Handlers {
	return discord.Handlers{
		OnReady:       guard(a.logger, enums.EventReady, a.onboarding.HandleReady),
		OnCommand:     guard(a.logger, enums.EventCommand, a.onboarding.HandleCommand),
		OnModalSubmit: guard(a.logger, enums.EventFormSubmitted, a.onboarding.HandleFormSubmitted),
		OnComponent:   guard(a.logger, enums.EventControlActivated, a.handleComponent),
		OnMemberJoin:  guard(a.logger, enums.EventMemberJoined, a.onboarding.HandleMemberJoined),
	}
}

func (a *App) handleComponent(ctx context.Context, update discord.ComponentUpdate) error {
	if !onboarding.IsRoleButton(update.CustomID) {
		a.logger.Debug("ignoring unknown component", zap.String("custom_id", update.CustomID))
		return nil
	}

	boundUserID, err := onboarding.ParseRoleButtonCustomID(update.CustomID)
	if err != nil {
		return fmt.Errorf("parse component %q: %w", update.CustomID, err)
	}

	return a.onboarding.HandleControlActivated(ctx, model.ControlActivatedEvent{
		Interaction: update.Interaction,
		GuildID:     update.GuildID,
		ActivatorID: update.UserID,
		BoundUserID: boundUserID,
	})
}
