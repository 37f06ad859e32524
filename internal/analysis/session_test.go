package analysis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingAnalyzer struct {
	calls  atomic.Int32
	result Result
}

func (c *countingAnalyzer) Analyze(ctx context.Context, prompt string) Result {
	c.calls.Add(1)
	return c.result
}

func TestSessionLifecycle(t *testing.T) {
	fake := &countingAnalyzer{result: Success("## Priority Order")}
	start := time.Date(2025, 12, 4, 9, 0, 0, 0, time.UTC)
	clock := start
	s := NewSession(fake).WithClock(func() time.Time { return clock })

	if s.State() != StateIdle {
		t.Fatalf("initial state=%v", s.State())
	}

	job, ok := s.Trigger(context.Background(), "prompt")
	if !ok || job == nil {
		t.Fatal("trigger from idle should start a call")
	}
	if s.State() != StatePending || !s.StartedAt().Equal(start) {
		t.Fatalf("state=%v startedAt=%v", s.State(), s.StartedAt())
	}

	clock = start.Add(3 * time.Second)
	c := job()
	if c.Elapsed != 3*time.Second {
		t.Fatalf("elapsed=%v", c.Elapsed)
	}
	if !s.Settle(c) {
		t.Fatal("settle of current call should be accepted")
	}
	if s.State() != StateSettled || !s.Result().OK() || s.Result().Document() != "## Priority Order" {
		t.Fatalf("unexpected settled state: %v %v", s.State(), s.Result())
	}

	// Settled is terminal only until the next trigger.
	if _, ok := s.Trigger(context.Background(), "again"); !ok {
		t.Fatal("trigger from settled should start a call")
	}
	if s.State() != StatePending {
		t.Fatalf("state=%v, want pending", s.State())
	}
}

func TestSessionTriggerWhilePendingIsNoop(t *testing.T) {
	fake := &countingAnalyzer{result: Success("doc")}
	s := NewSession(fake)

	first, ok := s.Trigger(context.Background(), "p")
	if !ok {
		t.Fatal("first trigger should start")
	}
	second, ok := s.Trigger(context.Background(), "p")
	if ok || second != nil {
		t.Fatal("second trigger while pending must be a no-op")
	}

	s.Settle(first())
	if got := fake.calls.Load(); got != 1 {
		t.Fatalf("analyzer calls=%d, want exactly 1", got)
	}
}

func TestSessionDiscardsStaleCompletion(t *testing.T) {
	s := NewSession(&countingAnalyzer{result: Failure(KindNetworkFailure, "timeout")})

	if s.Settle(Completion{ID: "anything", Result: Success("x")}) {
		t.Fatal("settle while idle must be discarded")
	}

	job, _ := s.Trigger(context.Background(), "p")
	stale := Completion{ID: "not-the-current-call", Result: Success("stale")}
	if s.Settle(stale) {
		t.Fatal("completion for another call must be discarded")
	}
	if s.State() != StatePending {
		t.Fatalf("state=%v, want still pending", s.State())
	}

	c := job()
	if !s.Settle(c) {
		t.Fatal("current completion should settle")
	}
	if s.Result().Kind() != KindNetworkFailure {
		t.Fatalf("kind=%v", s.Result().Kind())
	}
	if s.Settle(c) {
		t.Fatal("duplicate completion must be discarded once settled")
	}
}

func TestResultVariants(t *testing.T) {
	ok := Success("doc")
	if !ok.OK() || ok.Kind() != KindNone || ok.Document() != "doc" {
		t.Fatalf("unexpected success: %v", ok)
	}
	bad := Failure(KindRemoteError, "status 429")
	if bad.OK() || bad.Kind() != KindRemoteError || bad.Detail() != "status 429" {
		t.Fatalf("unexpected failure: %v", bad)
	}
	if Failure(KindNone, "x").OK() {
		t.Fatal("a failure can never be OK")
	}
	if KindMissingCredential.String() != "missing credential" {
		t.Fatalf("kind string=%q", KindMissingCredential.String())
	}
}

func TestSessionCheckpointRestores(t *testing.T) {
	s := NewSession(AnalyzerFunc(func(context.Context, string) Result { return Success("x") }))
	restore := s.Checkpoint()
	if _, ok := s.Trigger(context.Background(), "p"); !ok {
		t.Fatal("trigger from idle should start a call")
	}
	restore()
	if s.State() != StateIdle {
		t.Fatalf("state=%v, want idle", s.State())
	}
	if _, ok := s.Trigger(context.Background(), "p"); !ok {
		t.Fatal("trigger after restore should start a call")
	}
}
