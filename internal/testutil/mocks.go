package testutil

import (
	"context"
	"sync"
	"time"

	"feedboard/internal/models"
	"feedboard/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were recorded at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu            sync.Mutex
	SessionStates []int
	PollOutcomes  []bool
	SaveOutcomes  []bool
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveRemoteDuration(_ string, _ time.Duration)  {}
func (m *MockMetrics) IncRemoteErrors(_ string, _ string)               {}

func (m *MockMetrics) IncPollTicks(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollOutcomes = append(m.PollOutcomes, success)
}

func (m *MockMetrics) IncConfigSaves(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveOutcomes = append(m.SaveOutcomes, success)
}

func (m *MockMetrics) SetSessionState(state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionStates = append(m.SessionStates, state)
}

// MockRemote implements remote.API with programmable responses. Function
// fields take precedence over the static ones.
type MockRemote struct {
	mu sync.Mutex

	FetchFn    func(ctx context.Context, token string) (models.Document, error)
	ConfigDoc  models.Document
	ConfigErr  error
	UpdateFn   func(ctx context.Context, token string, doc models.Document) (models.Document, error)
	UpdateDoc  models.Document
	UpdateErr  error
	ChannelSet []models.Channel
	ChannelErr error
	StatsFn    func(ctx context.Context) (*models.StatsSnapshot, error)
	Snapshot   *models.StatsSnapshot
	StatsErr   error

	FetchCalls   int
	FetchTokens  []string
	UpdateCalls  int
	UpdateBodies []models.Document
	StatsCalls   int
}

func (m *MockRemote) FetchConfig(ctx context.Context, token string) (models.Document, error) {
	m.mu.Lock()
	m.FetchCalls++
	m.FetchTokens = append(m.FetchTokens, token)
	fn := m.FetchFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConfigErr != nil {
		return nil, m.ConfigErr
	}
	return m.ConfigDoc.Clone(), nil
}

func (m *MockRemote) UpdateConfig(ctx context.Context, token string, doc models.Document) (models.Document, error) {
	m.mu.Lock()
	m.UpdateCalls++
	m.UpdateBodies = append(m.UpdateBodies, doc.Clone())
	fn := m.UpdateFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, token, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if m.UpdateDoc != nil {
		return m.UpdateDoc.Clone(), nil
	}
	return doc.Clone(), nil
}

func (m *MockRemote) Channels(_ context.Context, _ string) ([]models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ChannelErr != nil {
		return nil, m.ChannelErr
	}
	return m.ChannelSet, nil
}

func (m *MockRemote) Stats(ctx context.Context) (*models.StatsSnapshot, error) {
	m.mu.Lock()
	m.StatsCalls++
	fn := m.StatsFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	return m.Snapshot, nil
}

// CountFetches returns FetchConfig call count under the lock.
func (m *MockRemote) CountFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}

// CountUpdates returns UpdateConfig call count under the lock.
func (m *MockRemote) CountUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UpdateCalls
}
