package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromJSON(t *testing.T, raw string) Document {
	t.Helper()
	var d Document
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestMerge_LeafOverwrite(t *testing.T) {
	dst := docFromJSON(t, `{"channelIds":{"kill":"111","online":"222"}}`)
	src := docFromJSON(t, `{"channelIds":{"kill":"999"}}`)

	out := Merge(dst, src)

	assert.Equal(t, "999", out.ChannelID(FeedKill))
	assert.Equal(t, "222", out.ChannelID(FeedOnline))
}

func TestMerge_SiblingSectionsIntact(t *testing.T) {
	dst := docFromJSON(t, `{"channelIds":{"built":"333"},"feeds":{"built":false}}`)
	src := FeedPatch(FeedBuilt, true)

	out := Merge(dst, src)

	assert.True(t, out.FeedEnabled(FeedBuilt))
	assert.Equal(t, "333", out.ChannelID(FeedBuilt))
}

func TestMerge_DisjointLeafPaths(t *testing.T) {
	dst := docFromJSON(t, `{"channelIds":{"kill":"111"},"feeds":{"built":false}}`)

	out := Merge(dst, ChannelPatch(FeedOnline, "444"))
	out = Merge(out, FeedPatch(FeedPlaced, true))
	out = Merge(out, FeedPatch(FeedBuilt, true))

	assert.Equal(t, "111", out.ChannelID(FeedKill))
	assert.Equal(t, "444", out.ChannelID(FeedOnline))
	assert.True(t, out.FeedEnabled(FeedPlaced))
	assert.True(t, out.FeedEnabled(FeedBuilt))
}

func TestMerge_UnknownKeysPreserved(t *testing.T) {
	dst := docFromJSON(t, `{"channelIds":{"kill":"111"},"experimental":{"raidAlerts":true}}`)

	out := Merge(dst, ChannelPatch(FeedKill, "555"))

	exp, ok := out["experimental"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, exp["raidAlerts"])
}

func TestMerge_ScalarReplacesObject(t *testing.T) {
	dst := docFromJSON(t, `{"feeds":{"built":false}}`)
	src := docFromJSON(t, `{"feeds":null}`)

	out := Merge(dst, src)

	assert.Nil(t, out["feeds"])
	assert.False(t, out.FeedEnabled(FeedBuilt))
}

func TestMerge_IntoAbsentSection(t *testing.T) {
	out := Merge(Document{}, FeedPatch(FeedDismantled, true))
	assert.True(t, out.FeedEnabled(FeedDismantled))
}

func TestClone_Independent(t *testing.T) {
	orig := docFromJSON(t, `{"channelIds":{"kill":"111"}}`)
	cp := orig.Clone()

	Merge(cp, ChannelPatch(FeedKill, "999"))

	assert.Equal(t, "111", orig.ChannelID(FeedKill))
	assert.Equal(t, "999", cp.ChannelID(FeedKill))
}

func TestClone_Nil(t *testing.T) {
	var d Document
	assert.Nil(t, d.Clone())
}

func TestDocument_AccessorsOnAbsent(t *testing.T) {
	var d Document
	assert.Equal(t, "", d.ChannelID(FeedKill))
	assert.False(t, d.FeedEnabled(FeedKill))

	d = Document{}
	assert.Equal(t, "", d.ChannelID(FeedKill))
	assert.False(t, d.FeedEnabled(FeedKill))
}
