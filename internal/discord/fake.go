package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"channelsorter/internal/guild"
)

// Fake is an in-memory API implementation with the same position semantics
// as the remote store: text channel positions are one dense guild-wide
// sequence, and setting an absolute position shifts every channel between
// the old and new slot by one. Used by reconciliation and driver tests.
type Fake struct {
	mu sync.Mutex

	categories  []guild.Category
	channels    map[string]*guild.Channel
	lastMessage map[string]*time.Time
	roles       map[string]guild.Role
	memberRoles map[string]map[string]bool

	// Sent records messages posted per channel, in order.
	Sent map[string][]string

	// ModifyCalls counts ModifyChannel invocations, for idempotence tests.
	ModifyCalls int

	failures map[string]*failureRule
	nextID   int
}

// failureRule fails an operation after a number of remaining successes.
type failureRule struct {
	successes int
	err       error
}

// NewFake creates an empty fake guild.
func NewFake() *Fake {
	return &Fake{
		channels:    make(map[string]*guild.Channel),
		lastMessage: make(map[string]*time.Time),
		roles:       make(map[string]guild.Role),
		memberRoles: make(map[string]map[string]bool),
		Sent:        make(map[string][]string),
		failures:    make(map[string]*failureRule),
	}
}

// AddCategory registers a category container.
func (f *Fake) AddCategory(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, guild.Category{ID: id, Name: name})
}

// AddChannel registers a text channel at an explicit position.
func (f *Fake) AddChannel(ch guild.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := ch
	f.channels[ch.ID] = &c
}

// AddRole registers an existing guild role.
func (f *Fake) AddRole(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[id] = guild.Role{ID: id, Name: name}
}

// SetLastMessage sets the most recent message timestamp for a channel.
// A nil time models a channel that has never seen a message.
func (f *Fake) SetLastMessage(channelID string, t *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMessage[channelID] = t
}

// FailWith makes the named operation return err until cleared with a nil
// err. Operation names match the API method names.
func (f *Fake) FailWith(op string, err error) {
	f.FailAfter(op, 0, err)
}

// FailAfter lets the named operation succeed the given number of times and
// fail with err afterwards. A nil err clears the rule.
func (f *Fake) FailAfter(op string, successes int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = &failureRule{successes: successes, err: err}
}

// Channel returns a copy of a channel's current state.
func (f *Fake) Channel(id string) (guild.Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return guild.Channel{}, false
	}
	return *ch, true
}

// MemberHasRole reports whether AddMemberRole assigned the role.
func (f *Fake) MemberHasRole(userID, roleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.memberRoles[userID][roleID]
}

func (f *Fake) fail(op string) error {
	rule, ok := f.failures[op]
	if !ok {
		return nil
	}
	if rule.successes > 0 {
		rule.successes--
		return nil
	}
	return &guild.APIError{Op: op, Err: rule.err}
}

func (f *Fake) GuildState(ctx context.Context, guildID string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GuildState"); err != nil {
		return State{}, err
	}
	state := State{Categories: append([]guild.Category(nil), f.categories...)}
	for _, ch := range f.channels {
		state.Channels = append(state.Channels, *ch)
	}
	guild.SortChannelsByPosition(state.Channels)
	return state, nil
}

func (f *Fake) ModifyChannel(ctx context.Context, channelID string, patch ChannelPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ModifyChannel"); err != nil {
		return err
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return &guild.APIError{Op: "ModifyChannel", Status: 404, Err: fmt.Errorf("unknown channel %s", channelID)}
	}
	f.ModifyCalls++

	if patch.Position != nil && *patch.Position != ch.Position {
		old := ch.Position
		target := *patch.Position
		for _, other := range f.channels {
			if other.ID == channelID {
				continue
			}
			if old > target && other.Position >= target && other.Position < old {
				other.Position++
			} else if old < target && other.Position > old && other.Position <= target {
				other.Position--
			}
		}
		ch.Position = target
	}
	if patch.Name != nil {
		ch.Name = *patch.Name
	}
	if patch.ParentID != nil {
		ch.CategoryID = *patch.ParentID
	}
	if patch.Overwrites != nil {
		ch.Overwrites = append([]guild.PermissionOverwrite(nil), (*patch.Overwrites)...)
	}
	return nil
}

func (f *Fake) ModifyCategory(ctx context.Context, categoryID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ModifyCategory"); err != nil {
		return err
	}
	for i := range f.categories {
		if f.categories[i].ID == categoryID {
			f.categories[i].Name = name
			return nil
		}
	}
	return &guild.APIError{Op: "ModifyCategory", Status: 404, Err: fmt.Errorf("unknown category %s", categoryID)}
}

func (f *Fake) CreateChannel(ctx context.Context, guildID, name, parentID string) (guild.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateChannel"); err != nil {
		return guild.Channel{}, err
	}
	f.nextID++
	maxPos := -1
	for _, ch := range f.channels {
		if ch.Position > maxPos {
			maxPos = ch.Position
		}
	}
	ch := guild.Channel{
		ID:         fmt.Sprintf("fake-channel-%d", f.nextID),
		Name:       name,
		CategoryID: parentID,
		Position:   maxPos + 1,
	}
	f.channels[ch.ID] = &ch
	return ch, nil
}

func (f *Fake) CreateRole(ctx context.Context, guildID, name string, mentionable bool) (guild.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateRole"); err != nil {
		return guild.Role{}, err
	}
	f.nextID++
	role := guild.Role{ID: fmt.Sprintf("fake-role-%d", f.nextID), Name: name}
	f.roles[role.ID] = role
	return role, nil
}

func (f *Fake) GuildRoles(ctx context.Context, guildID string) ([]guild.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GuildRoles"); err != nil {
		return nil, err
	}
	var roles []guild.Role
	for _, r := range f.roles {
		roles = append(roles, r)
	}
	return roles, nil
}

func (f *Fake) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("AddMemberRole"); err != nil {
		return err
	}
	if f.memberRoles[userID] == nil {
		f.memberRoles[userID] = make(map[string]bool)
	}
	f.memberRoles[userID][roleID] = true
	return nil
}

func (f *Fake) SetChannelPermission(ctx context.Context, channelID string, overwrite guild.PermissionOverwrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SetChannelPermission"); err != nil {
		return err
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return &guild.APIError{Op: "SetChannelPermission", Status: 404, Err: fmt.Errorf("unknown channel %s", channelID)}
	}
	for i := range ch.Overwrites {
		if ch.Overwrites[i].TargetID == overwrite.TargetID {
			ch.Overwrites[i] = overwrite
			return nil
		}
	}
	ch.Overwrites = append(ch.Overwrites, overwrite)
	return nil
}

func (f *Fake) DeleteChannelPermission(ctx context.Context, channelID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteChannelPermission"); err != nil {
		return err
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return &guild.APIError{Op: "DeleteChannelPermission", Status: 404, Err: fmt.Errorf("unknown channel %s", channelID)}
	}
	kept := ch.Overwrites[:0]
	for _, o := range ch.Overwrites {
		if o.TargetID != targetID {
			kept = append(kept, o)
		}
	}
	ch.Overwrites = kept
	return nil
}

func (f *Fake) LastMessageTime(ctx context.Context, channelID string) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("LastMessageTime"); err != nil {
		return nil, err
	}
	return f.lastMessage[channelID], nil
}

func (f *Fake) SendMessage(ctx context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SendMessage"); err != nil {
		return err
	}
	f.Sent[channelID] = append(f.Sent[channelID], content)
	return nil
}

var _ API = (*Fake)(nil)
