package models

// OnlinePlayers carries the current and peak player counts reported by the
// bot.
type OnlinePlayers struct {
	CurrentOnline int `json:"currentOnline"`
	PeakOnline    int `json:"peakOnline"`
}

// AltDetection carries device-tracking totals for alt-account detection.
type AltDetection struct {
	TotalDevices int `json:"totalDevices"`
}

// StatsSnapshot is the read-only operational snapshot served by the bot at
// /api/stats. Replaced wholesale on every poll tick, never merged.
type StatsSnapshot struct {
	EventsProcessed int64         `json:"eventsProcessed"`
	OnlinePlayers   OnlinePlayers `json:"onlinePlayers"`
	AltDetection    AltDetection  `json:"altDetection"`
	Version         string        `json:"version"`
	Uptime          float64       `json:"uptime"`
}

// Channel is a selectable Discord destination.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChannelList is the body of GET /api/discord/channels.
type ChannelList struct {
	Channels []Channel `json:"channels"`
}
