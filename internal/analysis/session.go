package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// State 会话状态
// State is the session lifecycle phase
type State int

const (
	StateIdle State = iota
	StatePending
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Completion carries the result of one call, tagged with the call ID that
// Trigger handed out.
type Completion struct {
	ID      string
	Result  Result
	Elapsed time.Duration
}

// Job runs the in-flight call. It blocks, so the caller runs it off the UI loop.
type Job func() Completion

// Session 管理单个分析请求的生命周期：Idle -> Pending -> Settled
// Session owns the lifecycle of a single analysis request: Idle -> Pending -> Settled.
// It is not safe for concurrent use; the dashboard loop is its only caller.
type Session struct {
	analyzer Analyzer
	now      func() time.Time

	state     State
	currentID string
	startedAt time.Time
	result    Result
}

func NewSession(analyzer Analyzer) *Session {
	return &Session{analyzer: analyzer, now: time.Now}
}

// WithClock replaces the time source (tests).
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Trigger 在 Idle 或 Settled 时进入 Pending 并返回待执行的任务；Pending 时为空操作
// Trigger moves Idle or Settled to Pending and returns the job to run. While
// Pending it does nothing and returns false.
func (s *Session) Trigger(ctx context.Context, prompt string) (Job, bool) {
	if s.state == StatePending {
		return nil, false
	}
	id := uuid.NewString()
	started := s.now()
	s.state = StatePending
	s.currentID = id
	s.startedAt = started
	s.result = Result{}

	analyzer, now := s.analyzer, s.now
	return func() Completion {
		res := analyzer.Analyze(ctx, prompt)
		return Completion{ID: id, Result: res, Elapsed: now().Sub(started)}
	}, true
}

// Settle 仅接受当前进行中调用的结果，其余一律丢弃
// Settle commits c if it belongs to the current in-flight call. Anything else is
// discarded and Settle returns false.
func (s *Session) Settle(c Completion) bool {
	if s.state != StatePending || c.ID == "" || c.ID != s.currentID {
		return false
	}
	s.state = StateSettled
	s.result = c.Result
	s.currentID = ""
	return true
}

// Checkpoint 记录当前状态，返回的函数将其恢复
// Checkpoint captures the lifecycle state; calling the returned func restores it.
func (s *Session) Checkpoint() func() {
	saved := *s
	return func() { *s = saved }
}

func (s *Session) State() State { return s.state }

func (s *Session) Pending() bool { return s.state == StatePending }

// StartedAt is meaningful only while Pending.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Result is meaningful only once Settled.
func (s *Session) Result() Result { return s.result }
