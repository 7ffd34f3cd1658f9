package notify

import (
	"context"
	"sync"
	"testing"
	"time"
)

type testMsg struct{ n int }

func TestPostAndTryNextFIFO(t *testing.T) {
	mb := NewMailbox()
	for i := 0; i < 5; i++ {
		mb.Post(testMsg{i})
	}
	if mb.Len() != 5 {
		t.Fatalf("Len = %d, want 5", mb.Len())
	}
	for i := 0; i < 5; i++ {
		msg, ok := mb.TryNext()
		if !ok || msg.(testMsg).n != i {
			t.Fatalf("TryNext #%d = %v, %v", i, msg, ok)
		}
	}
	if _, ok := mb.TryNext(); ok {
		t.Error("TryNext on empty mailbox returned a message")
	}
}

func TestNextBlocksUntilPost(t *testing.T) {
	mb := NewMailbox()
	got := make(chan int, 1)
	go func() {
		msg, ok := mb.Next(context.Background())
		if ok {
			got <- msg.(testMsg).n
		}
	}()

	time.Sleep(20 * time.Millisecond)
	mb.Post(testMsg{42})

	select {
	case n := <-got:
		if n != 42 {
			t.Errorf("got %d, want 42", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not wake up after Post")
	}
}

func TestNextRespectsContext(t *testing.T) {
	mb := NewMailbox()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := mb.Next(ctx); ok {
		t.Error("Next should fail once ctx expires")
	}
}

func TestCloseWakesWaiter(t *testing.T) {
	mb := NewMailbox()
	done := make(chan bool, 1)
	go func() {
		_, ok := mb.Next(context.Background())
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	mb.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Next returned a message from an empty closed mailbox")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not wake Next")
	}

	mb.Post(testMsg{1})
	if mb.Len() != 0 {
		t.Error("Post after Close should be discarded")
	}
	mb.Close()
}

func TestConcurrentProducersNeverDrop(t *testing.T) {
	mb := NewMailbox()
	const producers, each = 8, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				mb.Post(testMsg{i})
			}
		}()
	}

	received := 0
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for received < producers*each {
		if _, ok := mb.Next(ctx); !ok {
			t.Fatalf("timed out after %d messages", received)
		}
		received++
	}
	wg.Wait()
	if mb.Len() != 0 {
		t.Errorf("leftover messages: %d", mb.Len())
	}
}

func TestDrain(t *testing.T) {
	mb := NewMailbox()
	mb.Post(testMsg{1})
	mb.Post(testMsg{2})
	msgs := mb.Drain()
	if len(msgs) != 2 || mb.Len() != 0 {
		t.Errorf("Drain = %v, Len = %d", msgs, mb.Len())
	}
}

func TestWaitCmd(t *testing.T) {
	if WaitCmd(nil)() != nil {
		t.Error("WaitCmd(nil) should yield nil")
	}
	mb := NewMailbox()
	mb.Post(testMsg{9})
	if msg := WaitCmd(mb)(); msg.(testMsg).n != 9 {
		t.Errorf("WaitCmd yielded %v", msg)
	}
	mb.Close()
	if msg := WaitCmd(mb)(); msg != nil {
		t.Errorf("WaitCmd on closed mailbox yielded %v", msg)
	}
}
