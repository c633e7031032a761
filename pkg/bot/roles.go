package bot

import (
	"errors"
	"fmt"

	"vanitybot/pkg/vanity"

	"github.com/bwmarrin/discordgo"
)

// DiscordRoles implements vanity.RoleAPI on top of a live session.
type DiscordRoles struct {
	Session *discordgo.Session
}

var _ vanity.RoleAPI = (*DiscordRoles)(nil)

func isUnknownRole(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownRole
	}
	return false
}

func mapRoleErr(err error) error {
	if isUnknownRole(err) {
		return fmt.Errorf("%w: %v", vanity.ErrRoleNotFound, err)
	}
	return err
}

// Role checks the state cache first. A cached, available guild's role list is
// authoritative. Guilds still waiting for GUILD_CREATE (READY stubs, outages)
// carry no roles, so they fall back to REST like uncached guilds.
func (d *DiscordRoles) Role(guildID, roleID string) (*discordgo.Role, error) {
	if d.Session.State != nil {
		if role, err := d.Session.State.Role(guildID, roleID); err == nil {
			return role, nil
		}
		if g, err := d.Session.State.Guild(guildID); err == nil && !g.Unavailable {
			return nil, vanity.ErrRoleNotFound
		}
	}

	roles, err := d.Session.GuildRoles(guildID)
	if err != nil {
		return nil, mapRoleErr(err)
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return nil, vanity.ErrRoleNotFound
}

func (d *DiscordRoles) CreateRole(guildID string, params *discordgo.RoleParams, reason string) (*discordgo.Role, error) {
	return d.Session.GuildRoleCreate(guildID, params, discordgo.WithAuditLogReason(reason))
}

func (d *DiscordRoles) EditRole(guildID, roleID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	role, err := d.Session.GuildRoleEdit(guildID, roleID, params)
	return role, mapRoleErr(err)
}

func (d *DiscordRoles) MoveRole(guildID, roleID string, position int) error {
	_, err := d.Session.GuildRoleReorder(guildID, []*discordgo.Role{{ID: roleID, Position: position}})
	return mapRoleErr(err)
}

func (d *DiscordRoles) DeleteRole(guildID, roleID, reason string) error {
	return mapRoleErr(d.Session.GuildRoleDelete(guildID, roleID, discordgo.WithAuditLogReason(reason)))
}

func (d *DiscordRoles) AddMemberRole(guildID, userID, roleID, reason string) error {
	return d.Session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (d *DiscordRoles) SetNickname(guildID, userID, nickname string) error {
	return d.Session.GuildMemberNickname(guildID, userID, nickname)
}

// GuildIDs lists the guilds currently held in the session state.
func GuildIDs(s *discordgo.Session) func() []string {
	return func() []string {
		if s.State == nil {
			return nil
		}
		s.State.RLock()
		defer s.State.RUnlock()

		ids := make([]string, 0, len(s.State.Guilds))
		for _, g := range s.State.Guilds {
			ids = append(ids, g.ID)
		}
		return ids
	}
}
