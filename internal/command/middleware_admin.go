package command

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/RosseteDev/NGC-2237/internal/lang"
)

// WithAdminOnly wraps a command to enforce admin-only access when the
// command declares RequireAdmin.
func WithAdminOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if !cmd.RequireAdmin() {
					return cmd.Run(ctx)
				}

				switch v := ctx.(type) {
				case *SlashContext:
					member := v.Event.Member
					if member == nil || member.User == nil ||
						!IsAdministrator(v.Session, v.Event.GuildID, member.User.ID, member.Roles) {
						code := GuildLanguage(v.Storage, v.Event.GuildID)
						return RespondEphemeral(v.Session, v.Event, lang.T(code, "settings.admin_required", nil))
					}

				case *MessageContext:
					var roles []string
					if v.Event.Member != nil {
						roles = v.Event.Member.Roles
					}
					if !IsAdministrator(v.Session, v.Event.GuildID, v.Event.Author.ID, roles) {
						log.Printf("[WARN] Denied %s for user %s: admin required", cmd.Name(), v.Event.Author.ID)
						return nil
					}
				}

				return cmd.Run(ctx)
			},
		}
	}
}

// IsAdministrator reports whether the user owns the guild or carries a
// role with the administrator or manage-server permission.
func IsAdministrator(s *discordgo.Session, guildID, userID string, roles []string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return false
		}
	}

	if userID == guild.OwnerID {
		return true
	}

	for _, r := range roles {
		role, _ := s.State.Role(guildID, r)
		if role != nil && role.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageServer) != 0 {
			return true
		}
	}

	return false
}
