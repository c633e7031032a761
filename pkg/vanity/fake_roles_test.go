package vanity

import (
	"errors"
	"strconv"
	"sync"

	"vanitybot/pkg/store"

	"github.com/bwmarrin/discordgo"
)

// fakeRoleAPI is an in-memory guild for Manager tests
type fakeRoleAPI struct {
	mu          sync.Mutex
	roles       map[string]map[string]*discordgo.Role
	memberRoles map[string][]string
	nicknames   map[string]string
	nextID      int
	calls       []string

	lookupErr error
	createErr error
	editErr   error
	moveErr   error
	deleteErr error
	addErr    error
	nickErr   error
}

func newFakeRoleAPI(guildIDs ...string) *fakeRoleAPI {
	f := &fakeRoleAPI{
		roles:       make(map[string]map[string]*discordgo.Role),
		memberRoles: make(map[string][]string),
		nicknames:   make(map[string]string),
		nextID:      1000,
	}
	for _, g := range guildIDs {
		f.roles[g] = make(map[string]*discordgo.Role)
	}
	return f
}

func (f *fakeRoleAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRoleAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// addRole seeds a role as if an admin had created it
func (f *fakeRoleAPI) addRole(guildID, roleID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[guildID][roleID] = &discordgo.Role{ID: roleID, Name: name}
}

// dropRole simulates an admin deleting a role by hand
func (f *fakeRoleAPI) dropRole(guildID, roleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles[guildID], roleID)
}

func (f *fakeRoleAPI) roleCount(guildID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.roles[guildID])
}

func (f *fakeRoleAPI) Role(guildID, roleID string) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Role")
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	role, ok := f.roles[guildID][roleID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	copied := *role
	return &copied, nil
}

func (f *fakeRoleAPI) CreateRole(guildID string, params *discordgo.RoleParams, reason string) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateRole")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	role := &discordgo.Role{
		ID:          strconv.Itoa(f.nextID),
		Name:        params.Name,
		Color:       *params.Color,
		Permissions: *params.Permissions,
	}
	f.roles[guildID][role.ID] = role
	copied := *role
	return &copied, nil
}

func (f *fakeRoleAPI) EditRole(guildID, roleID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("EditRole")
	if f.editErr != nil {
		return nil, f.editErr
	}
	role, ok := f.roles[guildID][roleID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	role.Name = params.Name
	role.Color = *params.Color
	role.Permissions = *params.Permissions
	copied := *role
	return &copied, nil
}

func (f *fakeRoleAPI) MoveRole(guildID, roleID string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("MoveRole")
	if f.moveErr != nil {
		return f.moveErr
	}
	role, ok := f.roles[guildID][roleID]
	if !ok {
		return ErrRoleNotFound
	}
	role.Position = position
	return nil
}

func (f *fakeRoleAPI) DeleteRole(guildID, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteRole")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.roles[guildID][roleID]; !ok {
		return ErrRoleNotFound
	}
	delete(f.roles[guildID], roleID)
	return nil
}

func (f *fakeRoleAPI) AddMemberRole(guildID, userID, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddMemberRole")
	if f.addErr != nil {
		return f.addErr
	}
	key := guildID + ":" + userID
	f.memberRoles[key] = append(f.memberRoles[key], roleID)
	return nil
}

func (f *fakeRoleAPI) SetNickname(guildID, userID, nickname string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetNickname")
	if f.nickErr != nil {
		return f.nickErr
	}
	f.nicknames[guildID+":"+userID] = nickname
	return nil
}

// failingStore fails every write
type failingStore struct {
	store.Store
}

var errDiskFull = errors.New("disk full")

func (f failingStore) Put(userID, roleID string) error { return errDiskFull }
func (f failingStore) Delete(userID string) error      { return errDiskFull }
