package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ivankudzin/guildbot/internal/domain/model"
	"github.com/ivankudzin/guildbot/internal/repo/memory"
	"github.com/ivankudzin/guildbot/internal/ui"
)

const (
	testGuildID   = "G"
	testRoleID    = "ROLE_ID"
	testLogChan   = "log-channel"
	testWelcome   = "welcome-channel"
	testInvite    = "https://discord.gg/invite"
	testRoleLabel = "MS1 Year 1 Student"
)

type respondCall struct {
	Interaction model.Interaction
	Reply       ui.Reply
}

type sendCall struct {
	ChannelID string
	Reply     ui.Reply
}

type grantCall struct {
	GuildID string
	UserID  string
	RoleID  string
}

type fakePlatform struct {
	forms    []ui.Form
	responds []respondCall
	sends    []sendCall
	grants   []grantCall
	synced   [][]ui.Command

	grantErr error
	sendErr  error
	syncErr  error
}

func (f *fakePlatform) ShowForm(_ context.Context, _ model.Interaction, form ui.Form) error {
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakePlatform) Respond(_ context.Context, interaction model.Interaction, reply ui.Reply) error {
	f.responds = append(f.responds, respondCall{Interaction: interaction, Reply: reply})
	return nil
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID string, reply ui.Reply) error {
	f.sends = append(f.sends, sendCall{ChannelID: channelID, Reply: reply})
	return f.sendErr
}

func (f *fakePlatform) GrantRole(_ context.Context, guildID, userID, roleID string) error {
	f.grants = append(f.grants, grantCall{GuildID: guildID, UserID: userID, RoleID: roleID})
	return f.grantErr
}

func (f *fakePlatform) SyncCommands(_ context.Context, commands []ui.Command) (int, error) {
	f.synced = append(f.synced, commands)
	if f.syncErr != nil {
		return 0, f.syncErr
	}
	return len(commands), nil
}

func newTestService(t *testing.T, logger *zap.Logger) (*Service, *memory.PendingRepo, *fakePlatform) {
	t.Helper()

	store := memory.NewPendingRepo()
	platform := &fakePlatform{}
	svc := NewService(store, platform, Config{
		GuildID:          testGuildID,
		RoleID:           testRoleID,
		RoleLabel:        testRoleLabel,
		LogChannelID:     testLogChan,
		WelcomeChannelID: testWelcome,
		InviteLink:       testInvite,
		RegisterCommand:  "wmi_register",
	}, logger)
	svc.now = func() time.Time { return time.Date(2025, 7, 13, 0, 28, 27, 0, time.UTC) }
	return svc, store, platform
}

func TestHandleCommandOpensRegistrationForm(t *testing.T) {
	svc, _, platform := newTestService(t, nil)

	err := svc.HandleCommand(context.Background(), model.CommandEvent{UserID: "42", Name: "wmi_register"})
	if err != nil {
		t.Fatalf("handle command: %v", err)
	}
	if len(platform.forms) != 1 || platform.forms[0].CustomID != ui.FormRegistrationID {
		t.Fatalf("expected registration form, got %+v", platform.forms)
	}
}

func TestHandleCommandUnknownNameReplies(t *testing.T) {
	svc, _, platform := newTestService(t, nil)

	if err := svc.HandleCommand(context.Background(), model.CommandEvent{Name: "other"}); err != nil {
		t.Fatalf("handle command: %v", err)
	}
	if len(platform.forms) != 0 {
		t.Fatal("form must not open for unknown command")
	}
	if len(platform.responds) != 1 || platform.responds[0].Reply.Content != ui.TextUnknownCommand {
		t.Fatalf("unexpected responds: %+v", platform.responds)
	}
}

func TestHandleFormSubmittedAuditsWithoutWritingStore(t *testing.T) {
	svc, store, platform := newTestService(t, nil)

	err := svc.HandleFormSubmitted(context.Background(), model.FormSubmittedEvent{
		Interaction: model.Interaction{ID: "ix-1", Token: "tok"},
		UserID:      "42",
		FormID:      ui.FormRegistrationID,
		Name:        "Jane",
		Email:       "",
	})
	if err != nil {
		t.Fatalf("handle form submitted: %v", err)
	}

	if store.Len() != 0 {
		t.Fatalf("form submission must not write the store, len=%d", store.Len())
	}

	if len(platform.responds) != 1 {
		t.Fatalf("expected one interaction response, got %d", len(platform.responds))
	}
	reply := platform.responds[0].Reply
	if !reply.Ephemeral || len(reply.Buttons) != 1 {
		t.Fatalf("unexpected role selection reply: %+v", reply)
	}
	if reply.Buttons[0].CustomID != RoleButtonCustomID("42") || reply.Buttons[0].Label != testRoleLabel {
		t.Fatalf("unexpected role button: %+v", reply.Buttons[0])
	}

	if len(platform.sends) != 1 || platform.sends[0].ChannelID != testLogChan {
		t.Fatalf("expected audit to log channel, got %+v", platform.sends)
	}
	audit := platform.sends[0].Reply.Panel.Description
	for _, want := range []string{"Jane", "Not provided", "2025-07-13 00:28:27", testRoleLabel} {
		if !strings.Contains(audit, want) {
			t.Fatalf("audit missing %q:\n%s", want, audit)
		}
	}
}

func TestHandleFormSubmittedSkipsAuditWithoutLogChannel(t *testing.T) {
	svc, _, platform := newTestService(t, nil)
	svc.cfg.LogChannelID = ""

	err := svc.HandleFormSubmitted(context.Background(), model.FormSubmittedEvent{
		UserID: "42",
		FormID: ui.FormRegistrationID,
		Name:   "Jane",
		Email:  "jane@example.com",
	})
	if err != nil {
		t.Fatalf("handle form submitted: %v", err)
	}
	if len(platform.sends) != 0 {
		t.Fatalf("expected no audit send, got %+v", platform.sends)
	}
}

func TestHandleFormSubmittedRejectsUnknownForm(t *testing.T) {
	svc, _, platform := newTestService(t, nil)

	err := svc.HandleFormSubmitted(context.Background(), model.FormSubmittedEvent{FormID: "other"})
	if !errors.Is(err, ErrInvalidCustomID) {
		t.Fatalf("expected ErrInvalidCustomID, got %v", err)
	}
	if len(platform.responds) != 1 || platform.responds[0].Reply.Content != ui.TextUnknownForm || !platform.responds[0].Reply.Ephemeral {
		t.Fatalf("unknown form must get an ephemeral error reply, got %+v", platform.responds)
	}
	if len(platform.sends) != 0 {
		t.Fatalf("unknown form must not be audited, got %+v", platform.sends)
	}
}

func TestHandleFormSubmittedReturnsAuditFailure(t *testing.T) {
	svc, _, platform := newTestService(t, nil)
	platform.sendErr = errors.New("missing access")

	err := svc.HandleFormSubmitted(context.Background(), model.FormSubmittedEvent{
		UserID: "42",
		FormID: ui.FormRegistrationID,
		Name:   "Jane",
	})
	if err == nil || !strings.Contains(err.Error(), "send registration audit") {
		t.Fatalf("expected audit error, got %v", err)
	}
	if len(platform.responds) != 1 {
		t.Fatal("role selection should still have been sent")
	}
}

func TestHandleControlActivatedStoresSelection(t *testing.T) {
	svc, store, platform := newTestService(t, nil)

	err := svc.HandleControlActivated(context.Background(), model.ControlActivatedEvent{
		ActivatorID: "42",
		BoundUserID: "42",
	})
	if err != nil {
		t.Fatalf("handle control activated: %v", err)
	}

	if len(platform.responds) != 1 {
		t.Fatalf("expected one response, got %d", len(platform.responds))
	}
	reply := platform.responds[0].Reply
	if reply.Panel == nil || !strings.Contains(reply.Panel.Description, testInvite) {
		t.Fatalf("confirmation should include invite link: %+v", reply.Panel)
	}

	pending, ok := store.Take("42")
	if !ok || pending.RoleID != testRoleID {
		t.Fatalf("expected pending role for 42, got %+v ok=%v", pending, ok)
	}
}

func TestHandleControlActivatedRejectsOtherUser(t *testing.T) {
	svc, store, platform := newTestService(t, nil)
	store.Put("B", "earlier-role")

	err := svc.HandleControlActivated(context.Background(), model.ControlActivatedEvent{
		ActivatorID: "A",
		BoundUserID: "B",
	})
	if err != nil {
		t.Fatalf("handle control activated: %v", err)
	}

	if len(platform.responds) != 1 || platform.responds[0].Reply.Content != ui.TextRejectForeignControl {
		t.Fatalf("expected rejection reply, got %+v", platform.responds)
	}
	if !platform.responds[0].Reply.Ephemeral {
		t.Fatal("rejection must be ephemeral")
	}
	if _, ok := store.Take("A"); ok {
		t.Fatal("activator must not get a pending role")
	}
	pending, ok := store.Take("B")
	if !ok || pending.RoleID != "earlier-role" {
		t.Fatalf("bound user's entry must be untouched, got %+v ok=%v", pending, ok)
	}
}

func TestHandleControlActivatedWithoutRoleReportsNotFound(t *testing.T) {
	svc, store, platform := newTestService(t, nil)
	svc.cfg.RoleID = ""

	err := svc.HandleControlActivated(context.Background(), model.ControlActivatedEvent{
		ActivatorID: "42",
		BoundUserID: "42",
	})
	if err != nil {
		t.Fatalf("handle control activated: %v", err)
	}
	if platform.responds[0].Reply.Content != ui.TextRoleNotFound {
		t.Fatalf("unexpected reply: %+v", platform.responds[0].Reply)
	}
	if store.Len() != 0 {
		t.Fatal("store must stay empty without a configured role")
	}
}

func TestHandleMemberJoinedGrantsPendingRoleThenWelcomes(t *testing.T) {
	svc, store, platform := newTestService(t, nil)

	if err := svc.HandleControlActivated(context.Background(), model.ControlActivatedEvent{
		ActivatorID: "42",
		BoundUserID: "42",
	}); err != nil {
		t.Fatalf("handle control activated: %v", err)
	}

	if err := svc.HandleMemberJoined(context.Background(), model.MemberJoinedEvent{
		GuildID:  testGuildID,
		MemberID: "42",
	}); err != nil {
		t.Fatalf("handle member joined: %v", err)
	}

	if len(platform.grants) != 1 {
		t.Fatalf("expected exactly one grant, got %+v", platform.grants)
	}
	if got := platform.grants[0]; got != (grantCall{GuildID: testGuildID, UserID: "42", RoleID: testRoleID}) {
		t.Fatalf("unexpected grant: %+v", got)
	}
	if len(platform.sends) != 1 || platform.sends[0].ChannelID != testWelcome {
		t.Fatalf("expected exactly one welcome, got %+v", platform.sends)
	}
	if !strings.Contains(platform.sends[0].Reply.Panel.Description, "<@42>") {
		t.Fatalf("welcome should mention member: %s", platform.sends[0].Reply.Panel.Description)
	}
	if store.Len() != 0 {
		t.Fatalf("pending entry must be consumed, len=%d", store.Len())
	}
}

func TestHandleMemberJoinedWithoutSelectionStillWelcomes(t *testing.T) {
	svc, _, platform := newTestService(t, nil)

	if err := svc.HandleMemberJoined(context.Background(), model.MemberJoinedEvent{
		GuildID:  testGuildID,
		MemberID: "99",
	}); err != nil {
		t.Fatalf("handle member joined: %v", err)
	}

	if len(platform.grants) != 0 {
		t.Fatalf("no grant expected, got %+v", platform.grants)
	}
	if len(platform.sends) != 1 {
		t.Fatalf("welcome must still be sent, got %+v", platform.sends)
	}
}

func TestHandleMemberJoinedWarnsWithoutWelcomeChannel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc, store, platform := newTestService(t, zap.New(core))
	svc.cfg.WelcomeChannelID = ""
	store.Put("42", testRoleID)

	if err := svc.HandleMemberJoined(context.Background(), model.MemberJoinedEvent{
		GuildID:  testGuildID,
		MemberID: "42",
	}); err != nil {
		t.Fatalf("handle member joined: %v", err)
	}

	if len(platform.grants) != 1 {
		t.Fatalf("pending role must still be granted, got %+v", platform.grants)
	}
	if len(platform.sends) != 0 {
		t.Fatalf("no channel to send to, got %+v", platform.sends)
	}
	warns := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("welcome channel is not configured, welcome not sent").All()
	if len(warns) != 1 || warns[0].ContextMap()["member_id"] != "42" {
		t.Fatalf("expected warning for skipped welcome, got %+v", logs.All())
	}
}

func TestHandleMemberJoinedDropsFailedGrant(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc, store, platform := newTestService(t, zap.New(core))
	platform.grantErr = errors.New("missing permissions")
	store.Put("42", testRoleID)

	if err := svc.HandleMemberJoined(context.Background(), model.MemberJoinedEvent{
		GuildID:  testGuildID,
		MemberID: "42",
	}); err != nil {
		t.Fatalf("grant failure must not fail the event: %v", err)
	}

	if store.Len() != 0 {
		t.Fatal("failed grant must not re-insert the entry")
	}
	if len(platform.sends) != 1 {
		t.Fatal("welcome must be sent after a failed grant")
	}
	if logs.FilterMessage("grant pending role").Len() != 1 {
		t.Fatalf("expected grant failure log, got %+v", logs.All())
	}

	if err := svc.HandleMemberJoined(context.Background(), model.MemberJoinedEvent{
		GuildID:  testGuildID,
		MemberID: "42",
	}); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if len(platform.grants) != 1 {
		t.Fatalf("grant must not be retried, got %d calls", len(platform.grants))
	}
}

func TestHandleMemberJoinedIgnoresOtherGuild(t *testing.T) {
	svc, store, platform := newTestService(t, nil)
	store.Put("42", testRoleID)

	if err := svc.HandleMemberJoined(context.Background(), model.MemberJoinedEvent{
		GuildID:  "another-guild",
		MemberID: "42",
	}); err != nil {
		t.Fatalf("handle member joined: %v", err)
	}

	if len(platform.grants) != 0 || len(platform.sends) != 0 {
		t.Fatalf("join from another guild must be ignored: grants=%+v sends=%+v", platform.grants, platform.sends)
	}
	if store.Len() != 1 {
		t.Fatal("pending entry must survive a join elsewhere")
	}
}

func TestHandleReadySyncsCommands(t *testing.T) {
	svc, _, platform := newTestService(t, nil)

	if err := svc.HandleReady(context.Background(), model.ReadyEvent{BotUsername: "wmi-bot"}); err != nil {
		t.Fatalf("handle ready: %v", err)
	}
	if len(platform.synced) != 1 || len(platform.synced[0]) != 1 || platform.synced[0][0].Name != "wmi_register" {
		t.Fatalf("unexpected synced commands: %+v", platform.synced)
	}

	platform.syncErr = errors.New("unauthorized")
	if err := svc.HandleReady(context.Background(), model.ReadyEvent{}); err == nil {
		t.Fatal("expected sync failure to be returned")
	}
}
