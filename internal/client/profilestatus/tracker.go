// Package profilestatus tracks whether the signed-in user has completed
// their scholarship profile. The result gates the profile-dependent
// commands and picks the navigation label.
package profilestatus

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/scholarscout/internal/client/api"
	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/client/session"
	"github.com/dmitrijs2005/scholarscout/internal/logging"
)

const (
	LabelCompleteProfile = "Complete Profile"
	LabelMyProfile       = "My Profile"
)

// SummaryFetcher loads the completion summary of the current user.
// *api.ProfileAPI implements it.
type SummaryFetcher interface {
	Summary(ctx context.Context) (*models.ProfileSummary, error)
}

// Session is the view of the session the tracker depends on.
// *session.Manager implements it.
type Session interface {
	State() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
}

type Tracker struct {
	sess    Session
	fetcher SummaryFetcher
	log     logging.Logger

	mu       sync.RWMutex
	summary  *models.ProfileSummary
	errMsg   string
	loading  bool
	gen      uint64
	cancel   context.CancelFunc
	lastUser int64

	baseCtx     context.Context
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewTracker(sess Session, fetcher SummaryFetcher, log logging.Logger) *Tracker {
	if log == nil {
		log = logging.Discard()
	}
	return &Tracker{
		sess:    sess,
		fetcher: fetcher,
		log:     log,
		baseCtx: context.Background(),
	}
}

// Start follows the session: every change of the signed-in user triggers a
// background Refresh bound to ctx. The current session is picked up
// immediately.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	t.baseCtx = ctx
	t.mu.Unlock()

	t.unsubscribe = t.sess.Subscribe(t.onSession)
	t.onSession(t.sess.State())
}

// Stop detaches from the session, cancels an in-flight refresh and waits for
// background work to end.
func (t *Tracker) Stop() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.mu.Unlock()
	t.Wait()
}

// Wait blocks until background refreshes finish.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) onSession(s session.State) {
	if s.IsLoading() {
		return
	}

	uid := s.UserID()
	t.mu.Lock()
	changed := uid != t.lastUser
	t.lastUser = uid
	ctx := t.baseCtx
	t.mu.Unlock()

	if !changed {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.log.Warn(ctx, "profile summary refresh failed", "error", err)
		}
	}()
}

// Refresh reloads the summary. Without a signed-in user the summary and
// error are cleared. A missing profile clears both as well; any other
// failure is kept as the error message and returned.
//
// A newer Refresh cancels an older one, whose result is then discarded.
func (t *Tracker) Refresh(ctx context.Context) error {
	gen, ctx, cancel := t.begin(ctx)
	defer cancel()

	if !t.sess.State().IsAuthenticated() {
		t.commit(gen, nil, "")
		return nil
	}

	s, err := t.fetcher.Summary(ctx)
	switch {
	case err == nil:
		t.commit(gen, s, "")
		return nil
	case errors.Is(err, api.ErrNotFound):
		t.commit(gen, nil, "")
		return nil
	case ctx.Err() != nil && !t.current(gen):
		return ctx.Err()
	default:
		t.commit(gen, nil, api.Message(err))
		return err
	}
}

func (t *Tracker) begin(parent context.Context) (uint64, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	t.cancel = cancel
	t.loading = true
	return t.gen, ctx, cancel
}

func (t *Tracker) current(gen uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return gen == t.gen
}

func (t *Tracker) commit(gen uint64, s *models.ProfileSummary, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.summary = s
	t.errMsg = msg
	t.loading = false
	t.cancel = nil
}

// Summary returns a copy of the last loaded summary, or nil.
func (t *Tracker) Summary() *models.ProfileSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.summary == nil {
		return nil
	}
	cp := *t.summary
	cp.MissingFields = append([]string(nil), t.summary.MissingFields...)
	return &cp
}

func (t *Tracker) ErrorMessage() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errMsg
}

func (t *Tracker) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// IsProfileCompleted holds only for a signed-in user whose summary says so.
func (t *Tracker) IsProfileCompleted() bool {
	if !t.sess.State().IsAuthenticated() {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summary != nil && t.summary.ProfileCompleted
}

func (t *Tracker) NavLabel() string {
	if t.IsProfileCompleted() {
		return LabelMyProfile
	}
	return LabelCompleteProfile
}
