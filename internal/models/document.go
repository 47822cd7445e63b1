package models

// Known feed keys rendered by the dashboard. The bot may add more; unknown
// keys pass through the document untouched.
const (
	FeedKill         = "kill"
	FeedDeath        = "death"
	FeedLeaderboard  = "leaderboard"
	FeedOnline       = "online"
	FeedAdminTrack   = "adminTracking"
	FeedAltDetection = "altDetection"
	FeedPlaced       = "placed"
	FeedBuilt        = "built"
	FeedDismantled   = "dismantled"
)

// Document is the bot's configuration tree. It stays map-based so keys the
// dashboard does not know about survive a fetch/save round-trip.
type Document map[string]any

// Patch is a partial Document describing an intended change.
type Patch = Document

// Clone returns a deep copy. Nested maps are copied recursively; leaf values
// are shared (they are immutable JSON scalars after decoding).
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		if m, ok := v.(map[string]any); ok {
			out[k] = map[string]any(Document(m).Clone())
			continue
		}
		out[k] = v
	}
	return out
}

// Merge deep-merges src into dst and returns dst. Keys mapping to objects on
// both sides merge recursively; any other value overwrites. Keys absent from
// src are left alone, so a patch touching channelIds.kill never erases
// channelIds.online. dst must be mutable (Clone first if shared).
func Merge(dst, src Document) Document {
	if dst == nil {
		dst = Document{}
	}
	for k, v := range src {
		sm, srcIsMap := v.(map[string]any)
		if !srcIsMap {
			dst[k] = v
			continue
		}
		dm, dstIsMap := dst[k].(map[string]any)
		if !dstIsMap {
			dst[k] = map[string]any(Document(sm).Clone())
			continue
		}
		dst[k] = map[string]any(Merge(dm, sm))
	}
	return dst
}

func (d Document) section(name string) Document {
	if d == nil {
		return nil
	}
	m, _ := d[name].(map[string]any)
	return m
}

// ChannelID returns the destination channel configured for a feed, or ""
// when unset.
func (d Document) ChannelID(feed string) string {
	s, _ := d.section("channelIds")[feed].(string)
	return s
}

// FeedEnabled reports whether a feed is toggled on. Absent means off.
func (d Document) FeedEnabled(feed string) bool {
	b, _ := d.section("feeds")[feed].(bool)
	return b
}

// ChannelPatch builds a patch setting channelIds.<feed>.
func ChannelPatch(feed, channelID string) Patch {
	return Patch{"channelIds": map[string]any{feed: channelID}}
}

// FeedPatch builds a patch setting feeds.<feed>.
func FeedPatch(feed string, enabled bool) Patch {
	return Patch{"feeds": map[string]any{feed: enabled}}
}
