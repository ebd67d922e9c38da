package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hashchat-ai/ledger-assistant/internal/model"
)

func turn(role model.Role, content string) model.Turn {
	return model.Turn{Role: role, Content: content, CreatedAt: time.Now()}
}

func TestWindowOrderAndBound(t *testing.T) {
	store := NewStore(WithMaxTurns(3))

	for i := 0; i < 5; i++ {
		store.Append("conv", turn(model.RoleUser, fmt.Sprintf("msg-%d", i)))
	}

	window := store.Window("conv")
	if len(window) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(window))
	}
	// Oldest evicted first
	for i, want := range []string{"msg-2", "msg-3", "msg-4"} {
		if window[i].Content != want {
			t.Fatalf("turn %d: got %q want %q", i, window[i].Content, want)
		}
	}
}

func TestWindowIsolationByConversation(t *testing.T) {
	store := NewStore()
	store.Append("a", turn(model.RoleUser, "hello from a"))
	store.Append("b", turn(model.RoleUser, "hello from b"))

	if got := store.Window("a"); len(got) != 1 || got[0].Content != "hello from a" {
		t.Fatalf("unexpected window for a: %+v", got)
	}
	if got := store.Window("missing"); got != nil {
		t.Fatalf("expected empty window for unknown id, got %+v", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }
	store := NewStore(WithTTL(time.Minute), withClock(clock))

	store.Append("conv", turn(model.RoleUser, "hi"))

	now = now.Add(30 * time.Second)
	if got := store.Window("conv"); len(got) != 1 {
		t.Fatalf("window expired too early: %+v", got)
	}

	now = now.Add(2 * time.Minute)
	if got := store.Window("conv"); got != nil {
		t.Fatalf("expected expired window, got %+v", got)
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired window to be dropped, have %d", store.Len())
	}
}

func TestAppendSweepsExpiredSiblings(t *testing.T) {
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }
	store := NewStore(WithTTL(time.Minute), withClock(clock))

	store.Append("stale", turn(model.RoleUser, "old"))
	now = now.Add(5 * time.Minute)
	store.Append("fresh", turn(model.RoleUser, "new"))

	if store.Len() != 1 {
		t.Fatalf("expected stale window swept, have %d windows", store.Len())
	}
}

func TestConcurrentAppendsSameConversation(t *testing.T) {
	store := NewStore(WithMaxTurns(1000))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				store.Append("shared", turn(model.RoleUser, fmt.Sprintf("w%d-%d", worker, j)))
			}
		}(i)
	}
	wg.Wait()

	if got := len(store.Window("shared")); got != 400 {
		t.Fatalf("expected 400 turns, got %d", got)
	}
}
