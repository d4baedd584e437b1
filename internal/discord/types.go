package discord

import (
	"strconv"
	"time"

	"channelsorter/internal/guild"
)

// Channel type discriminators from the wire protocol.
const (
	channelTypeText     = 0
	channelTypeCategory = 4
)

// Overwrite target types from the wire protocol.
const (
	overwriteTypeRole   = 0
	overwriteTypeMember = 1
)

type wireChannel struct {
	ID                   string          `json:"id"`
	Type                 int             `json:"type"`
	Name                 string          `json:"name"`
	Position             int             `json:"position"`
	ParentID             *string         `json:"parent_id"`
	PermissionOverwrites []wireOverwrite `json:"permission_overwrites"`
}

type wireOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
}

type wireRole struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Mentionable bool   `json:"mentionable"`
}

type wireMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func (w wireChannel) toChannel() guild.Channel {
	ch := guild.Channel{
		ID:       w.ID,
		Name:     w.Name,
		Position: w.Position,
	}
	if w.ParentID != nil {
		ch.CategoryID = *w.ParentID
	}
	for _, o := range w.PermissionOverwrites {
		ch.Overwrites = append(ch.Overwrites, o.toOverwrite())
	}
	return ch
}

func (w wireOverwrite) toOverwrite() guild.PermissionOverwrite {
	// Permission masks arrive as decimal strings; a malformed mask parses
	// to zero, which downstream treats as "no permissions".
	allow, _ := strconv.ParseUint(w.Allow, 10, 64)
	deny, _ := strconv.ParseUint(w.Deny, 10, 64)
	typ := guild.OverwriteRole
	if w.Type == overwriteTypeMember {
		typ = guild.OverwriteMember
	}
	return guild.PermissionOverwrite{
		TargetID: w.ID,
		Type:     typ,
		Allow:    allow,
		Deny:     deny,
	}
}

func fromOverwrite(o guild.PermissionOverwrite) wireOverwrite {
	typ := overwriteTypeRole
	if o.Type == guild.OverwriteMember {
		typ = overwriteTypeMember
	}
	return wireOverwrite{
		ID:    o.TargetID,
		Type:  typ,
		Allow: strconv.FormatUint(o.Allow, 10),
		Deny:  strconv.FormatUint(o.Deny, 10),
	}
}
