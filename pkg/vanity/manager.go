package vanity

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"vanitybot/pkg/store"

	"github.com/bwmarrin/discordgo"
)

// ErrRoleNotFound is returned by RoleAPI.Role when the role does not exist in the guild.
var ErrRoleNotFound = errors.New("role not found")

// RoleAPI is the slice of the Discord API the vanity logic needs.
type RoleAPI interface {
	Role(guildID, roleID string) (*discordgo.Role, error)
	CreateRole(guildID string, params *discordgo.RoleParams, reason string) (*discordgo.Role, error)
	EditRole(guildID, roleID string, params *discordgo.RoleParams) (*discordgo.Role, error)
	MoveRole(guildID, roleID string, position int) error
	DeleteRole(guildID, roleID, reason string) error
	AddMemberRole(guildID, userID, roleID, reason string) error
	SetNickname(guildID, userID, nickname string) error
}

// Member identifies who invoked a command.
type Member struct {
	GuildID string
	UserID  string
	// Tag is used in audit log reasons
	Tag   string
	Roles []string
}

type NicknameOutcome int

const (
	// NicknameSkipped means nickname syncing is turned off.
	NicknameSkipped NicknameOutcome = iota
	NicknameUpdated
	// NicknameFailed is non-fatal; usually the bot lacks Manage Nicknames
	// or the member outranks it.
	NicknameFailed
)

func (o NicknameOutcome) String() string {
	switch o {
	case NicknameUpdated:
		return "updated"
	case NicknameFailed:
		return "failed"
	default:
		return "skipped"
	}
}

type Result struct {
	Role    *discordgo.Role
	Created bool
	// Moved is false when the new role could not be moved to its position.
	Moved       bool
	RoleAdded   bool
	Nickname    NicknameOutcome
	NicknameErr error
}

type Options struct {
	// RolePosition is where new roles are placed; 0 leaves Discord's default.
	RolePosition int
	SetNickname  bool
}

// Manager owns all mutations of vanity assignments. Every operation runs
// under one mutex so concurrent interactions cannot race on the mapping.
type Manager struct {
	roles RoleAPI
	store store.Store
	opts  Options
	mu    sync.Mutex
}

func NewManager(roles RoleAPI, s store.Store, opts Options) *Manager {
	return &Manager{
		roles: roles,
		store: s,
		opts:  opts,
	}
}

// roleParams always sends an empty permission set.
func roleParams(name string, color int) *discordgo.RoleParams {
	perms := int64(0)
	return &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Permissions: &perms,
	}
}

// lookup returns nil, nil when the role is gone.
func (m *Manager) lookup(guildID, roleID string) (*discordgo.Role, error) {
	role, err := m.roles.Role(guildID, roleID)
	if errors.Is(err, ErrRoleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Reconcile edits the member's tracked role or creates one, then makes sure
// the member holds it. name must already be sanitized.
func (m *Manager) Reconcile(member Member, name string, color int) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &Result{}
	params := roleParams(name, color)

	roleID, ok, err := m.store.Get(member.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment: %w", err)
	}

	var role *discordgo.Role
	if ok {
		existing, err := m.lookup(member.GuildID, roleID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up role %s: %w", roleID, err)
		}
		if existing != nil {
			role, err = m.roles.EditRole(member.GuildID, existing.ID, params)
			if err != nil {
				return nil, fmt.Errorf("failed to edit role %s: %w", existing.ID, err)
			}
		}
	}

	if role == nil {
		role, err = m.roles.CreateRole(member.GuildID, params, fmt.Sprintf("Vanity role for %s", member.Tag))
		if err != nil {
			return nil, fmt.Errorf("failed to create role: %w", err)
		}
		result.Created = true

		if err := m.store.Put(member.UserID, role.ID); err != nil {
			// Untracked roles would never be cleaned up
			if delErr := m.roles.DeleteRole(member.GuildID, role.ID, "Vanity role could not be saved"); delErr != nil {
				log.Printf("[Vanity] Failed to roll back role %s: %v", role.ID, delErr)
			}
			return nil, fmt.Errorf("failed to save assignment: %w", err)
		}

		if m.opts.RolePosition > 0 {
			if err := m.roles.MoveRole(member.GuildID, role.ID, m.opts.RolePosition); err != nil {
				log.Printf("[Vanity] Failed to move role %s to position %d: %v", role.ID, m.opts.RolePosition, err)
			} else {
				result.Moved = true
			}
		}
	}
	result.Role = role

	if !slices.Contains(member.Roles, role.ID) {
		if err := m.roles.AddMemberRole(member.GuildID, member.UserID, role.ID, "Vanity role assignment"); err != nil {
			return nil, fmt.Errorf("failed to add role %s to %s: %w", role.ID, member.UserID, err)
		}
		result.RoleAdded = true
	}

	if m.opts.SetNickname {
		if err := m.roles.SetNickname(member.GuildID, member.UserID, name); err != nil {
			result.Nickname = NicknameFailed
			result.NicknameErr = err
		} else {
			result.Nickname = NicknameUpdated
		}
	}

	return result, nil
}

// Remove deletes the member's vanity role and forgets the assignment.
// It reports whether a role was deleted; no assignment is not an error.
func (m *Manager) Remove(member Member) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roleID, ok, err := m.store.Get(member.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to read assignment: %w", err)
	}
	if !ok {
		return false, nil
	}

	existing, err := m.lookup(member.GuildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to look up role %s: %w", roleID, err)
	}

	deleted := false
	if existing != nil {
		err := m.roles.DeleteRole(member.GuildID, existing.ID, "User removed vanity role.")
		if err != nil && !errors.Is(err, ErrRoleNotFound) {
			return false, fmt.Errorf("failed to delete role %s: %w", existing.ID, err)
		}
		deleted = err == nil
	}

	if err := m.store.Delete(member.UserID); err != nil {
		return deleted, fmt.Errorf("failed to delete assignment: %w", err)
	}
	return deleted, nil
}

// Sweep drops assignments whose role exists in none of guildIDs. An entry is
// kept when a lookup fails for a reason other than the role being missing.
// It returns the user ids that were dropped.
func (m *Manager) Sweep(guildIDs []string) ([]string, error) {
	if len(guildIDs) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	var removed []string
	var errs []error
	for userID, roleID := range all {
		found, uncertain := false, false
		for _, guildID := range guildIDs {
			role, err := m.lookup(guildID, roleID)
			if err != nil {
				log.Printf("[Cleanup] Failed to look up role %s in guild %s: %v", roleID, guildID, err)
				uncertain = true
				continue
			}
			if role != nil {
				found = true
				break
			}
		}
		if found || uncertain {
			continue
		}

		if err := m.store.Delete(userID); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete assignment for %s: %w", userID, err))
			continue
		}
		removed = append(removed, userID)
	}

	return removed, errors.Join(errs...)
}
