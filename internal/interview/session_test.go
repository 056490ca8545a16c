package interview_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/talentscout/screener/internal/interview"
	"github.com/talentscout/screener/pkg/repository/mock"
)

func newTestManager(t *testing.T, idle time.Duration) *interview.Manager {
	t.Helper()
	gen := &fakeGen{
		techList:  "Go, Postgres",
		questions: "1. Explain goroutines.\n2. What is an index?\n3. Describe interfaces.",
	}
	return interview.NewManager(gen, mock.NewStore(), interview.Config{
		CompanyName:  "TalentScout",
		ExitKeywords: []string{"bye"},
	}, idle, nil)
}

func TestManager_CreateAndProcess(t *testing.T) {
	mgr := newTestManager(t, time.Hour)

	sess, greeting := mgr.Create()
	if sess.ID == "" {
		t.Fatalf("expected a session id")
	}
	if !strings.Contains(greeting, "full name") {
		t.Fatalf("unexpected greeting: %q", greeting)
	}
	if mgr.Len() != 1 {
		t.Fatalf("manager should track one session, got %d", mgr.Len())
	}

	res := sess.Process(context.Background(), "My name is Jane Doe")
	if res.Stage != "collecting_info" {
		t.Fatalf("stage = %q after name", res.Stage)
	}

	got, err := mgr.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Fatalf("Get returned a different session")
	}
}

func TestManager_GetUnknown(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	if _, err := mgr.Get("no-such-id"); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_Expire(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	sess, _ := mgr.Create()

	if err := mgr.Expire(sess.ID); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if mgr.Len() != 0 {
		t.Fatalf("session still tracked after expire")
	}
	if err := mgr.Expire(sess.ID); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("second expire err = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_SweepConcurrentWithTurns(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	sess, _ := mgr.Create()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ctx := context.Background()
		for {
			select {
			case <-done:
				return
			default:
				sess.Process(ctx, "My name is Jane Doe")
				sess.Snapshot()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				mgr.SweepIdle()
			}
		}
	}()

	time.Sleep(50 * time.Millisecond)
	close(done)
	wg.Wait()

	// the session stayed active the whole time, so it must survive
	if _, err := mgr.Get(sess.ID); err != nil {
		t.Fatalf("active session swept: %v", err)
	}
}

func TestManager_SweepIdle(t *testing.T) {
	mgr := newTestManager(t, 50*time.Millisecond)
	stale, _ := mgr.Create()
	stale.LastActive = time.Now().Add(-time.Minute)
	fresh, _ := mgr.Create()

	removed := mgr.SweepIdle()
	if removed != 1 {
		t.Fatalf("swept %d sessions, want 1", removed)
	}
	if _, err := mgr.Get(stale.ID); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("stale session survived sweep")
	}
	if _, err := mgr.Get(fresh.ID); err != nil {
		t.Fatalf("fresh session swept: %v", err)
	}
}
