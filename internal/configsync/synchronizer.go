// Package configsync reconciles the operator's optimistic local edits with
// the bot's authoritative configuration document.
package configsync

import (
	"context"
	"errors"
	"sync"

	"feedboard/internal/models"
	"feedboard/internal/providers"
	"feedboard/internal/remote"
	"feedboard/internal/session"
)

// ErrBusy is returned by Save when a save is already in flight and, after it
// finished, nothing was left to submit.
var ErrBusy = errors.New("configsync: save already in flight")

// ErrNotAuthenticated is returned when an operation needs a credential and
// the session has none.
var ErrNotAuthenticated = errors.New("configsync: not authenticated")

// Recorder receives every document the bot confirmed. Implemented by the
// save-history journal.
type Recorder interface {
	Record(doc models.Document)
}

// Synchronizer holds the authoritative document plus one merged pending
// patch. Invariants:
//   - Working() is always authoritative plus pending, computed synchronously.
//   - At most one save request is in flight; later callers coalesce.
//   - Authoritative is replaced only by a server response, never by a
//     locally built document.
type Synchronizer struct {
	mu      sync.Mutex
	cond    *sync.Cond
	auth    models.Document // nil until first fetch
	pending models.Patch    // nil when clean
	saving  bool
	gen     uint64 // bumped on every ApplyPatch
	saveSeq uint64 // bumped when a save starts

	client   remote.API
	sess     *session.Manager
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	recorder Recorder
	notify   chan struct{}
}

func NewSynchronizer(client remote.API, sess *session.Manager, logger providers.Logger, metrics providers.MetricsProviderInterface, recorder Recorder) *Synchronizer {
	s := &Synchronizer{
		client:   client,
		sess:     sess,
		logger:   logger,
		metrics:  metrics,
		recorder: recorder,
		notify:   make(chan struct{}, 1),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Changes receives a signal whenever the working document changes.
func (s *Synchronizer) Changes() <-chan struct{} {
	return s.notify
}

func (s *Synchronizer) notifyChange() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Working returns authoritative plus pending. Nil until the first fetch when no
// patches were applied.
func (s *Synchronizer) Working() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workingLocked()
}

func (s *Synchronizer) workingLocked() models.Document {
	if s.pending == nil {
		return s.auth.Clone()
	}
	return models.Merge(s.auth.Clone(), s.pending)
}

// Dirty reports whether edits are waiting to be saved.
func (s *Synchronizer) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Fetch replaces the authoritative document wholesale. If a save started
// while the fetch was on the wire, the save wins: the fetched document is
// returned to the caller but not installed, so a page revisit never clobbers
// an edit in progress.
func (s *Synchronizer) Fetch(ctx context.Context) (models.Document, error) {
	token, ok := s.sess.Credential()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	seq := s.saveSeq
	s.mu.Unlock()

	doc, err := s.client.FetchConfig(ctx, token)
	if err != nil {
		if remote.IsAuth(err) {
			s.sess.Invalidate()
		}
		return nil, err
	}

	s.mu.Lock()
	if s.saving || s.saveSeq != seq {
		s.mu.Unlock()
		return doc, nil
	}
	s.auth = doc
	s.mu.Unlock()
	s.notifyChange()
	return doc, nil
}

// ApplyPatch deep-merges the patch into the pending overlay immediately and
// synchronously, before any network round-trip.
func (s *Synchronizer) ApplyPatch(patch models.Patch) {
	if len(patch) == 0 {
		return
	}
	s.mu.Lock()
	s.pending = models.Merge(s.pending.Clone(), patch)
	s.gen++
	s.mu.Unlock()
	s.notifyChange()
}

// Save submits the current working copy as a full-document update. A Save
// arriving while another is in flight waits for it and then resubmits the
// now-current working copy, so no caller's patches are lost and at most one
// request is ever on the wire. On success the authoritative document is
// replaced by the bot's response verbatim; on failure pending patches are
// retained for retry.
func (s *Synchronizer) Save(ctx context.Context) (models.Document, error) {
	s.mu.Lock()
	waited := false
	for s.saving {
		waited = true
		s.cond.Wait()
	}
	if waited && s.pending == nil {
		// The earlier save already carried everything we had.
		doc := s.auth.Clone()
		s.mu.Unlock()
		if doc == nil {
			return nil, ErrBusy
		}
		return doc, nil
	}

	token, ok := s.sess.Credential()
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}

	s.saving = true
	s.saveSeq++
	sentGen := s.gen
	doc := s.workingLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateConfig(ctx, token, doc)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		// Pending stays put so the operator can retry without re-entering
		// every field.
		s.cond.Broadcast()
		s.mu.Unlock()
		s.metrics.IncConfigSaves(false)
		if remote.IsAuth(err) {
			s.sess.Invalidate()
		}
		return nil, err
	}

	s.auth = updated
	if s.gen == sentGen {
		s.pending = nil
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	s.metrics.IncConfigSaves(true)
	if s.recorder != nil {
		s.recorder.Record(updated)
	}
	s.logger.Infof(providers.TypeApp, "Configuration saved")
	s.notifyChange()
	return updated, nil
}

// Reset abandons pending edits; called on logout and session invalidation.
// The authoritative copy stays intact and is replaced by the fresh fetch on
// the next session establishment.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.pending = nil
	s.gen++
	s.mu.Unlock()
	s.notifyChange()
}
