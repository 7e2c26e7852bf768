package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func newGuildStateSession(t *testing.T) *discordgo.Session {
	t.Helper()
	st := discordgo.NewState()
	err := st.GuildAdd(&discordgo.Guild{
		ID:      "guild-1",
		OwnerID: "owner-1",
		Roles: []*discordgo.Role{
			{ID: "role-admin", Permissions: discordgo.PermissionAdministrator},
			{ID: "role-dj", Permissions: discordgo.PermissionVoiceConnect},
		},
	})
	if err != nil {
		t.Fatalf("GuildAdd() error: %v", err)
	}
	return &discordgo.Session{State: st}
}

func TestIsAdministrator(t *testing.T) {
	s := newGuildStateSession(t)

	cases := []struct {
		name   string
		userID string
		roles  []string
		want   bool
	}{
		{"guild owner", "owner-1", nil, true},
		{"admin role", "user-2", []string{"role-admin"}, true},
		{"plain member", "user-3", []string{"role-dj"}, false},
		{"no roles", "user-4", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAdministrator(s, "guild-1", tc.userID, tc.roles); got != tc.want {
				t.Fatalf("IsAdministrator(%s) = %v, want %v", tc.userID, got, tc.want)
			}
		})
	}
}

type adminFakeCommand struct {
	fakeCommand
}

func (c *adminFakeCommand) RequireAdmin() bool { return true }

func TestWithAdminOnlyBlocksNonAdmins(t *testing.T) {
	s := newGuildStateSession(t)
	inner := &adminFakeCommand{fakeCommand{name: "prefix"}}
	cmd := ApplyMiddlewares(inner, WithAdminOnly())

	denied := &MessageContext{
		Session: s,
		Event: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID: "guild-1",
			Author:  &discordgo.User{ID: "user-3"},
			Member:  &discordgo.Member{Roles: []string{"role-dj"}},
		}},
	}
	if err := cmd.Run(denied); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if inner.runs != 0 {
		t.Fatal("admin-only command ran for a regular member")
	}

	owner := &MessageContext{
		Session: s,
		Event: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID: "guild-1",
			Author:  &discordgo.User{ID: "owner-1"},
		}},
	}
	if err := cmd.Run(owner); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if inner.runs != 1 {
		t.Fatalf("command runs = %d, want 1 for the guild owner", inner.runs)
	}
}

func TestWithAdminOnlyPassesThroughRegularCommands(t *testing.T) {
	inner := &fakeCommand{name: "play"}
	cmd := ApplyMiddlewares(inner, WithAdminOnly())

	ctx := &MessageContext{
		Event: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID: "guild-1",
			Author:  &discordgo.User{ID: "user-3"},
		}},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if inner.runs != 1 {
		t.Fatalf("command runs = %d, want 1 without admin requirement", inner.runs)
	}
}
