package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"channelsorter/internal/guild"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-token", 5*time.Second, WithBaseURL(server.URL))
}

func TestClient_GuildState(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guilds/g1/channels", r.URL.Path)
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "cat1", "type": 4, "name": "Projects A-M", "position": 0},
			{
				"id": "ch1", "type": 0, "name": "ada", "position": 3, "parent_id": "cat1",
				"permission_overwrites": []map[string]interface{}{
					{"id": "role1", "type": 0, "allow": "1040", "deny": "0"},
				},
			},
			{"id": "voice1", "type": 2, "name": "general-voice", "position": 5},
		})
	})

	client := newTestClient(t, handler)
	state, err := client.GuildState(context.Background(), "g1")
	require.NoError(t, err)

	require.Len(t, state.Categories, 1)
	assert.Equal(t, "Projects A-M", state.Categories[0].Name)

	// Voice channel is neither text nor category and must be dropped.
	require.Len(t, state.Channels, 1)
	ch := state.Channels[0]
	assert.Equal(t, "ada", ch.Name)
	assert.Equal(t, "cat1", ch.CategoryID)
	assert.Equal(t, 3, ch.Position)
	require.Len(t, ch.Overwrites, 1)
	assert.Equal(t, uint64(1040), ch.Overwrites[0].Allow)
	assert.Equal(t, guild.OverwriteRole, ch.Overwrites[0].Type)
}

func TestClient_ModifyChannel_PartialPatch(t *testing.T) {
	var received map[string]interface{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/channels/ch1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, handler)
	err := client.ModifyChannel(context.Background(), "ch1", ChannelPatch{
		ParentID: StringPtr("cat2"),
		Position: IntPtr(7),
	})
	require.NoError(t, err)

	assert.Equal(t, "cat2", received["parent_id"])
	assert.Equal(t, float64(7), received["position"])
	// Unset fields must not be sent at all.
	_, hasName := received["name"]
	assert.False(t, hasName)
	_, hasOverwrites := received["permission_overwrites"]
	assert.False(t, hasOverwrites)
}

func TestClient_RateLimitRetry(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	})

	client := newTestClient(t, handler)
	state, err := client.GuildState(context.Background(), "g1")
	require.NoError(t, err)
	assert.Empty(t, state.Channels)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_PermanentErrorMapping(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Missing Permissions", "code": 50013}`))
	})

	client := newTestClient(t, handler)
	err := client.ModifyCategory(context.Background(), "cat1", "Projects A-Z")
	require.Error(t, err)

	var apiErr *guild.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.True(t, apiErr.Permanent())
	assert.Contains(t, apiErr.Error(), "Missing Permissions")
}

func TestClient_LastMessageTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	empty := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/ch1/messages", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		if empty {
			json.NewEncoder(w).Encode([]interface{}{})
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "m1", "timestamp": ts.Format(time.RFC3339)},
		})
	})

	client := newTestClient(t, handler)

	got, err := client.LastMessageTime(context.Background(), "ch1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(ts))

	empty = true
	got, err = client.LastMessageTime(context.Background(), "ch1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFake_PositionShiftSemantics(t *testing.T) {
	fake := NewFake()
	fake.AddCategory("cat1", "Projects")
	for i, name := range []string{"a", "b", "c", "d"} {
		fake.AddChannel(guild.Channel{ID: name, Name: name, CategoryID: "cat1", Position: i})
	}

	// Move d up to position 1: b and c shift down one.
	err := fake.ModifyChannel(context.Background(), "d", ChannelPatch{Position: IntPtr(1)})
	require.NoError(t, err)

	wantPositions := map[string]int{"a": 0, "d": 1, "b": 2, "c": 3}
	for id, want := range wantPositions {
		ch, ok := fake.Channel(id)
		require.True(t, ok)
		assert.Equal(t, want, ch.Position, "channel %s", id)
	}

	// Move a down to position 3: everything else shifts up one.
	err = fake.ModifyChannel(context.Background(), "a", ChannelPatch{Position: IntPtr(3)})
	require.NoError(t, err)

	wantPositions = map[string]int{"d": 0, "b": 1, "c": 2, "a": 3}
	for id, want := range wantPositions {
		ch, ok := fake.Channel(id)
		require.True(t, ok)
		assert.Equal(t, want, ch.Position, "channel %s", id)
	}
}
