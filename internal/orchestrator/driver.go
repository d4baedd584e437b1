package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"channelsorter/internal/archive"
	"channelsorter/internal/config"
	"channelsorter/internal/discord"
	"channelsorter/internal/guild"
	"channelsorter/internal/partition"
	"channelsorter/internal/reconcile"
	"channelsorter/pkg/logging"

	"github.com/google/uuid"
)

// CategorySource yields the ordered managed category IDs for a guild. It is
// consulted at the start of every operation so admin edits take effect
// without a restart. *config.CategoryStore implements it.
type CategorySource interface {
	Get(guildID string) ([]string, error)
}

// Summary reports what one reconciliation run changed.
type Summary struct {
	Archived int
	Moved    int
	Renamed  int
	Skipped  int
}

// Changed reports whether the run mutated anything.
func (s Summary) Changed() bool {
	return s.Archived > 0 || s.Moved > 0 || s.Renamed > 0
}

// String renders the summary the way it is posted to the log channel.
func (s Summary) String() string {
	return fmt.Sprintf("archived %d, moved %d, renamed %d, skipped %d",
		s.Archived, s.Moved, s.Renamed, s.Skipped)
}

// Plan is a computed but unapplied reconciliation, for dry runs.
type Plan struct {
	Moves   []reconcile.Move
	Renames []reconcile.Rename
}

// Driver orchestrates reconciliation runs for configured guilds. One run is
// run-to-completion with no internal parallelism; a per-guild mutex keeps
// the hourly timer and manual commands from interleaving within a guild,
// while distinct guilds reconcile independently.
type Driver struct {
	api        discord.API
	categories CategorySource

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDriver creates a Driver over the remote API and category store.
func NewDriver(api discord.API, categories CategorySource) *Driver {
	return &Driver{
		api:        api,
		categories: categories,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (d *Driver) guildLock(guildID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locks[guildID] == nil {
		d.locks[guildID] = &sync.Mutex{}
	}
	return d.locks[guildID]
}

// snapshotState is everything one run observes up front.
type snapshotState struct {
	state      discord.State
	categories []guild.Category // managed, in configured order
	managedIDs map[string]bool
	channels   []guild.Channel // channels under managed categories
	notify     *Notifier
	runID      string
}

// observe reads fresh remote state and resolves the managed set. Every
// public operation starts here; nothing is cached across runs.
func (d *Driver) observe(ctx context.Context, g config.GuildConfig, verbose bool) (*snapshotState, error) {
	ids, err := d.categories.Get(g.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &guild.ConfigError{Reason: fmt.Sprintf("no managed categories configured for guild %s", g.ID)}
	}

	state, err := d.api.GuildState(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]guild.Category, len(state.Categories))
	for _, cat := range state.Categories {
		byID[cat.ID] = cat
	}

	obs := &snapshotState{
		state:      state,
		managedIDs: make(map[string]bool, len(ids)),
		runID:      uuid.NewString()[:8],
	}
	for _, id := range ids {
		cat, ok := byID[id]
		if !ok {
			return nil, &guild.ConfigError{Reason: fmt.Sprintf("managed category %s does not exist in guild %s", id, g.ID)}
		}
		obs.categories = append(obs.categories, cat)
		obs.managedIDs[id] = true
	}
	for _, ch := range state.Channels {
		if obs.managedIDs[ch.CategoryID] {
			obs.channels = append(obs.channels, ch)
		}
	}

	if logID := findChannelByName(state.Channels, g.LogChannel); logID != "" {
		obs.notify = NewNotifier(d.api, logID, verbose)
	}
	return obs, nil
}

func findChannelByName(channels []guild.Channel, name string) string {
	for _, ch := range channels {
		if ch.Name == name {
			return ch.ID
		}
	}
	return ""
}

func (o *snapshotState) archiveCategoryID(name string) (string, error) {
	for _, cat := range o.state.Categories {
		if cat.Name == name {
			return cat.ID, nil
		}
	}
	return "", &guild.ConfigError{Reason: fmt.Sprintf("archive category %q not found", name)}
}

// Run performs a full reconciliation: archive inactive channels, then
// partition, move, and rename the remainder.
func (d *Driver) Run(ctx context.Context, g config.GuildConfig, verbose bool) (Summary, error) {
	lock := d.guildLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	obs, err := d.observe(ctx, g, verbose)
	if err != nil {
		return Summary{}, err
	}
	logging.Info("Driver", "run %s: reconciling guild %s (%d channels in %d categories)",
		obs.runID, g.ID, len(obs.channels), len(obs.categories))

	summary, err := d.archiveInactive(ctx, g, obs)
	if err != nil {
		return summary, err
	}

	sorted, err := d.applySort(ctx, g, obs, &summary)
	if err != nil {
		return summary, err
	}

	obs.notify.Resultf(ctx, summary.Changed(),
		"Channels sorted! Renamed %d categories and moved %d channels.", summary.Renamed, summary.Moved)
	logging.Info("Driver", "run %s: done, %s (%d channels)", obs.runID, summary, sorted)
	return summary, nil
}

// Sort reconciles ordering only, leaving inactivity untouched.
func (d *Driver) Sort(ctx context.Context, g config.GuildConfig, verbose bool) (Summary, error) {
	lock := d.guildLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	obs, err := d.observe(ctx, g, verbose)
	if err != nil {
		return Summary{}, err
	}
	obs.notify.Stepf(ctx, "Sorting channels!")

	var summary Summary
	if _, err := d.applySort(ctx, g, obs, &summary); err != nil {
		return summary, err
	}
	obs.notify.Resultf(ctx, summary.Changed(),
		"Channels sorted! Renamed %d categories and moved %d channels.", summary.Renamed, summary.Moved)
	return summary, nil
}

// ArchiveInactive archives channels past the inactivity threshold, without
// re-sorting the remainder.
func (d *Driver) ArchiveInactive(ctx context.Context, g config.GuildConfig, verbose bool) (Summary, error) {
	lock := d.guildLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	obs, err := d.observe(ctx, g, verbose)
	if err != nil {
		return Summary{}, err
	}
	obs.notify.Stepf(ctx, "Archiving inactive project channels.")

	summary, err := d.archiveInactive(ctx, g, obs)
	if err != nil {
		return summary, err
	}
	obs.notify.Resultf(ctx, summary.Archived > 0, "Archived %d inactive channels.", summary.Archived)
	return summary, nil
}

// PlanOnly computes the moves and renames a sort would perform without
// applying anything. Used by dry runs.
func (d *Driver) PlanOnly(ctx context.Context, g config.GuildConfig) (*Plan, error) {
	obs, err := d.observe(ctx, g, false)
	if err != nil {
		return nil, err
	}
	moves, renames, err := d.plan(g, obs)
	if err != nil {
		return nil, err
	}
	return &Plan{Moves: moves, Renames: renames}, nil
}

// archiveInactive runs the detection pass and archives matches. A failed
// activity query skips the channel for this run; archiving failures skip
// the channel too so one bad channel cannot wedge the pass.
func (d *Driver) archiveInactive(ctx context.Context, g config.GuildConfig, obs *snapshotState) (Summary, error) {
	var summary Summary
	threshold := g.InactivityThreshold()
	now := time.Now()

	var remaining []guild.Channel
	for _, ch := range obs.channels {
		last, err := d.api.LastMessageTime(ctx, ch.ID)
		if err != nil {
			logging.Warn("Archive", "run %s: skipping %s, activity query failed: %v", obs.runID, ch.Name, err)
			summary.Skipped++
			remaining = append(remaining, ch)
			continue
		}
		if !archive.Inactive(last, now, threshold) {
			remaining = append(remaining, ch)
			continue
		}

		archiveID, err := obs.archiveCategoryID(g.ArchiveCategory)
		if err != nil {
			return summary, err
		}
		obs.notify.Stepf(ctx, "Archiving #%s due to inactivity.", ch.Name)
		archiver := archive.New(d.api, g.OwnerRolePrefix)
		if err := archiver.Archive(ctx, g.ID, ch, archiveID); err != nil {
			logging.Error("Archive", err, "run %s: archiving %s failed", obs.runID, ch.Name)
			summary.Skipped++
			remaining = append(remaining, ch)
			continue
		}
		logging.Info("Archive", "run %s: archived %s", obs.runID, ch.Name)
		summary.Archived++
	}
	obs.channels = remaining
	return summary, nil
}

// plan computes the partition and move plan for the current observation.
func (d *Driver) plan(g config.GuildConfig, obs *snapshotState) ([]reconcile.Move, []reconcile.Rename, error) {
	snap := &guild.Snapshot{
		GuildID:    g.ID,
		Categories: obs.categories,
		Channels:   obs.channels,
	}
	if err := snap.Validate(); err != nil {
		return nil, nil, err
	}

	part, err := partition.Balance(obs.categories, snap.SortedChannels())
	if err != nil {
		return nil, nil, err
	}
	return reconcile.PlanMoves(snap, part, g.CategoryPrefix)
}

// applySort plans and applies moves then renames, halting on the first
// failed mutation. The summary reflects what was actually applied; partial
// progress is fine, the next run converges from the new state.
func (d *Driver) applySort(ctx context.Context, g config.GuildConfig, obs *snapshotState, summary *Summary) (int, error) {
	if len(obs.channels) == 0 {
		return 0, nil
	}

	moves, renames, err := d.plan(g, obs)
	if err != nil {
		return 0, err
	}

	for _, mv := range moves {
		if err := d.api.ModifyChannel(ctx, mv.ChannelID, discord.ChannelPatch{
			ParentID: discord.StringPtr(mv.CategoryID),
			Position: discord.IntPtr(mv.Position),
		}); err != nil {
			logging.Error("Reconcile", err, "run %s: move of %s halted the sequence after %d moves",
				obs.runID, mv.ChannelName, summary.Moved)
			return len(obs.channels), err
		}
		logging.Debug("Reconcile", "run %s: moved %s to category %s position %d",
			obs.runID, mv.ChannelName, mv.CategoryID, mv.Position)
		summary.Moved++
	}

	for _, rn := range renames {
		if err := d.api.ModifyCategory(ctx, rn.CategoryID, rn.NewName); err != nil {
			logging.Error("Reconcile", err, "run %s: renaming %s halted after %d renames",
				obs.runID, rn.OldName, summary.Renamed)
			return len(obs.channels), err
		}
		obs.notify.Stepf(ctx, "Renaming %s to %s", rn.OldName, rn.NewName)
		summary.Renamed++
	}
	return len(obs.channels), nil
}

// RepositionChannel inserts a single channel into its sorted slot without a
// full reconciliation. Used on rename and unarchive events.
func (d *Driver) RepositionChannel(ctx context.Context, g config.GuildConfig, channelID string) error {
	lock := d.guildLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	obs, err := d.observe(ctx, g, false)
	if err != nil {
		return err
	}
	var target *guild.Channel
	for i := range obs.channels {
		if obs.channels[i].ID == channelID {
			target = &obs.channels[i]
			break
		}
	}
	if target == nil {
		return &guild.ConfigError{Reason: fmt.Sprintf("channel %s is not in a managed category", channelID)}
	}

	slot, err := reconcile.Reposition(*target, obs.channels)
	if err != nil {
		return err
	}
	logging.Info("Reconcile", "run %s: repositioning %s to category %s position %d",
		obs.runID, target.Name, slot.CategoryID, slot.Position)
	return d.api.ModifyChannel(ctx, channelID, discord.ChannelPatch{
		ParentID: discord.StringPtr(slot.CategoryID),
		Position: discord.IntPtr(slot.Position),
	})
}

// CreateProjectChannel creates a new project channel with its owner role
// and permission overwrites, then runs a full sort to settle everything.
func (d *Driver) CreateProjectChannel(ctx context.Context, g config.GuildConfig, name, ownerID string) (guild.Channel, error) {
	lock := d.guildLock(g.ID)
	lock.Lock()

	obs, err := d.observe(ctx, g, true)
	if err != nil {
		lock.Unlock()
		return guild.Channel{}, err
	}

	ch, err := d.api.CreateChannel(ctx, g.ID, name, obs.categories[0].ID)
	if err != nil {
		lock.Unlock()
		return guild.Channel{}, err
	}
	obs.notify.Stepf(ctx, "Created channel #%s.", ch.Name)

	if slot, err := reconcile.Reposition(ch, obs.channels); err == nil {
		if err := d.api.ModifyChannel(ctx, ch.ID, discord.ChannelPatch{
			ParentID: discord.StringPtr(slot.CategoryID),
			Position: discord.IntPtr(slot.Position),
		}); err != nil {
			logging.Warn("Driver", "initial placement of %s failed, the sort below settles it: %v", ch.Name, err)
		}
	}

	role, err := d.api.CreateRole(ctx, g.ID, g.OwnerRolePrefix+capitalize(name), true)
	if err != nil {
		lock.Unlock()
		return ch, err
	}
	if err := d.api.AddMemberRole(ctx, g.ID, ownerID, role.ID); err != nil {
		lock.Unlock()
		return ch, err
	}
	if baseID := findRoleByName(ctx, d.api, g.ID, g.OwnerBaseRole); baseID != "" {
		if err := d.api.AddMemberRole(ctx, g.ID, ownerID, baseID); err != nil {
			logging.Warn("Driver", "could not grant base owner role: %v", err)
		}
	}
	obs.notify.Stepf(ctx, "Created and assigned role %s.", role.Name)

	overwrites := []guild.PermissionOverwrite{
		{TargetID: role.ID, Type: guild.OverwriteRole, Allow: guild.OwnerPermissions},
	}
	if botID := findRoleByName(ctx, d.api, g.ID, g.BotRole); botID != "" {
		overwrites = append(overwrites, guild.PermissionOverwrite{
			TargetID: botID, Type: guild.OverwriteRole, Deny: guild.PermViewChannel,
		})
	}
	if mutedID := findRoleByName(ctx, d.api, g.ID, g.MutedRole); mutedID != "" {
		overwrites = append(overwrites, guild.PermissionOverwrite{
			TargetID: mutedID, Type: guild.OverwriteRole,
			Deny: guild.PermSendMessages | guild.PermAddReactions,
		})
	}
	if err := d.api.ModifyChannel(ctx, ch.ID, discord.ChannelPatch{
		Overwrites: discord.OverwritesPtr(overwrites),
	}); err != nil {
		lock.Unlock()
		return ch, err
	}
	obs.notify.Stepf(ctx, "Set appropriate permissions for #%s.", ch.Name)

	// Sort takes the guild lock itself.
	lock.Unlock()
	_, err = d.Sort(ctx, g, true)
	return ch, err
}

// ArchiveChannel archives one channel on explicit request.
func (d *Driver) ArchiveChannel(ctx context.Context, g config.GuildConfig, channelID string) error {
	lock := d.guildLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	obs, err := d.observe(ctx, g, true)
	if err != nil {
		return err
	}
	archiveID, err := obs.archiveCategoryID(g.ArchiveCategory)
	if err != nil {
		return err
	}
	var target *guild.Channel
	for i := range obs.channels {
		if obs.channels[i].ID == channelID {
			target = &obs.channels[i]
			break
		}
	}
	if target == nil {
		return &guild.ConfigError{Reason: fmt.Sprintf("channel %s is not in a managed category", channelID)}
	}

	obs.notify.Stepf(ctx, "Channel #%s archived manually by owner.", target.Name)
	return archive.New(d.api, g.OwnerRolePrefix).Archive(ctx, g.ID, *target, archiveID)
}

// Unarchive restores an archived channel after activity in it.
func (d *Driver) Unarchive(ctx context.Context, g config.GuildConfig, channelID string) error {
	lock := d.guildLock(g.ID)
	lock.Lock()
	defer lock.Unlock()

	obs, err := d.observe(ctx, g, false)
	if err != nil {
		return err
	}
	var target *guild.Channel
	for i := range obs.state.Channels {
		if obs.state.Channels[i].ID == channelID {
			target = &obs.state.Channels[i]
			break
		}
	}
	if target == nil {
		return &guild.ConfigError{Reason: fmt.Sprintf("channel %s not found in guild %s", channelID, g.ID)}
	}
	return archive.New(d.api, g.OwnerRolePrefix).Unarchive(ctx, g.ID, *target, obs.channels)
}

// IsArchived reports whether a channel currently sits under the guild's
// archive category.
func (d *Driver) IsArchived(ctx context.Context, g config.GuildConfig, channelID string) (bool, error) {
	state, err := d.api.GuildState(ctx, g.ID)
	if err != nil {
		return false, err
	}
	var archiveID string
	for _, cat := range state.Categories {
		if cat.Name == g.ArchiveCategory {
			archiveID = cat.ID
		}
	}
	if archiveID == "" {
		return false, nil
	}
	for _, ch := range state.Channels {
		if ch.ID == channelID {
			return ch.CategoryID == archiveID, nil
		}
	}
	return false, nil
}

func findRoleByName(ctx context.Context, api discord.API, guildID, name string) string {
	if name == "" {
		return ""
	}
	roles, err := api.GuildRoles(ctx, guildID)
	if err != nil {
		logging.Warn("Driver", "role lookup failed: %v", err)
		return ""
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
