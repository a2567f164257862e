package review

import (
	"sync"
	"time"
)

// Tab identifies the active dashboard tab.
type Tab string

const (
	TabPending Tab = "pending"
	TabDecided Tab = "decided"
)

// NoticeKind classifies a transient notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient, self-clearing message surfaced after a
// decision submission.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	ExpiresAt time.Time  `json:"expires_at"`

	seq uint64
}

// ViewState is the explicit, serializable UI state of the dashboard:
// selection, modal visibility, active tab, and the transient notice.
// All mutations go through pure transition functions.
type ViewState struct {
	ActiveTab  Tab     `json:"active_tab"`
	SelectedID int64   `json:"selected_id,omitempty"`
	ModalOpen  bool    `json:"modal_open"`
	Notice     *Notice `json:"notice,omitempty"`
}

func (v ViewState) withSelection(id int64) ViewState {
	v.SelectedID = id
	v.ModalOpen = true
	return v
}

func (v ViewState) closed() ViewState {
	v.SelectedID = 0
	v.ModalOpen = false
	return v
}

func (v ViewState) withTab(t Tab) ViewState {
	v.ActiveTab = t
	return v
}

func (v ViewState) withNotice(n *Notice) ViewState {
	v.Notice = n
	return v
}

// submitSucceeded closes the selection modal and surfaces the success
// notice in one transition.
func (v ViewState) submitSucceeded(n *Notice) ViewState {
	return v.closed().withNotice(n)
}

// submitFailed surfaces the error notice; the modal stays open so the
// caller can retry or amend.
func (v ViewState) submitFailed(n *Notice) ViewState {
	return v.withNotice(n)
}

// noticeExpired clears the notice only when it is still the one the
// expiry was scheduled for.
func (v ViewState) noticeExpired(seq uint64) ViewState {
	if v.Notice != nil && v.Notice.seq == seq {
		v.Notice = nil
	}
	return v
}

// StateStore serializes view-state transitions and schedules notice
// expiry. The clock and timer are injectable for tests.
type StateStore struct {
	mu    sync.Mutex
	state ViewState
	seq   uint64

	now   func() time.Time
	after func(d time.Duration, f func())
}

// NewStateStore creates a store with the pending tab active.
func NewStateStore() *StateStore {
	return &StateStore{
		state: ViewState{ActiveTab: TabPending},
		now:   time.Now,
		after: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Snapshot returns the current view state.
func (s *StateStore) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select marks a submission selected and opens the review modal.
func (s *StateStore) Select(submissionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.withSelection(submissionID)
}

// Close clears the selection and closes the modal.
func (s *StateStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.closed()
}

// ChangeTab switches the active tab.
func (s *StateStore) ChangeTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.withTab(t)
}

// SubmitSucceeded applies the submit-succeeded transition with a
// success notice that self-clears after ttl.
func (s *StateStore) SubmitSucceeded(message string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.submitSucceeded(s.newNotice(NoticeSuccess, message, ttl))
}

// SubmitFailed applies the submit-failed transition with an error
// notice that self-clears after ttl.
func (s *StateStore) SubmitFailed(message string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.submitFailed(s.newNotice(NoticeError, message, ttl))
}

// newNotice allocates the next notice and schedules its expiry. Caller
// holds the lock.
func (s *StateStore) newNotice(kind NoticeKind, message string, ttl time.Duration) *Notice {
	s.seq++
	seq := s.seq
	notice := &Notice{
		Kind:      kind,
		Message:   message,
		ExpiresAt: s.now().Add(ttl),
		seq:       seq,
	}
	s.after(ttl, func() { s.expire(seq) })
	return notice
}

func (s *StateStore) expire(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.noticeExpired(seq)
}
