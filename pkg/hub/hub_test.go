package hub

import (
	"encoding/json"
	"testing"
	"time"
)

// newTestSubscriber builds a subscriber with a given send capacity and
// registers it, without a websocket connection behind it.
func newTestSubscriber(t *testing.T, f *Feed, capacity int) *subscriber {
	t.Helper()
	sub := &subscriber{feed: f, send: make(chan []byte, capacity)}
	f.register <- sub
	waitFor(t, func() bool { return f.ClientCount() > 0 })
	return sub
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never met")
}

func recvPayload(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case payload := <-ch:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func TestFeed_RegisterUnregister(t *testing.T) {
	f := NewStatusFeed()
	go f.Run()

	sub := newTestSubscriber(t, f, 1)
	if got := f.ClientCount(); got != 1 {
		t.Fatalf("client count %d, want 1", got)
	}

	f.unregister <- sub
	waitFor(t, func() bool { return f.ClientCount() == 0 })

	// Unregister closes the send channel so writePump drains out
	select {
	case _, ok := <-sub.send:
		if ok {
			t.Error("send channel delivered a payload instead of closing")
		}
	case <-time.After(2 * time.Second):
		t.Error("send channel not closed on unregister")
	}
}

func TestFeed_PublishFrame_ReachesAllSubscribers(t *testing.T) {
	f := NewFrameFeed()
	go f.Run()

	a := newTestSubscriber(t, f, 4)
	b := newTestSubscriber(t, f, 4)
	waitFor(t, func() bool { return f.ClientCount() == 2 })

	f.PublishFrame([]byte("jpeg-bytes"))

	for name, sub := range map[string]*subscriber{"first": a, "second": b} {
		if got := string(recvPayload(t, sub.send)); got != "jpeg-bytes" {
			t.Errorf("%s subscriber got %q, want jpeg-bytes", name, got)
		}
	}
}

func TestFeed_PublishJSON_Encodes(t *testing.T) {
	f := NewStatusFeed()
	go f.Run()

	sub := newTestSubscriber(t, f, 4)

	if err := f.PublishJSON(map[string]string{"status": "camera-running"}); err != nil {
		t.Fatalf("publish json: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(recvPayload(t, sub.send), &decoded); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if decoded["status"] != "camera-running" {
		t.Errorf("decoded %v, want status camera-running", decoded)
	}
}

func TestFeed_SlowSubscriberDroppedWithoutBlocking(t *testing.T) {
	f := NewFrameFeed()
	go f.Run()

	slow := newTestSubscriber(t, f, 1)
	fast := newTestSubscriber(t, f, 16)
	waitFor(t, func() bool { return f.ClientCount() == 2 })

	// Fill the slow subscriber's buffer; it never drains.
	slow.send <- []byte("stuck")

	published := make(chan struct{})
	go func() {
		f.PublishFrame([]byte("frame-1"))
		f.PublishFrame([]byte("frame-2"))
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The slow subscriber gets dropped; the fast one keeps receiving.
	waitFor(t, func() bool { return f.ClientCount() == 1 })

	if got := string(recvPayload(t, fast.send)); got != "frame-1" {
		t.Errorf("fast subscriber got %q, want frame-1", got)
	}
	if got := string(recvPayload(t, fast.send)); got != "frame-2" {
		t.Errorf("fast subscriber got %q, want frame-2", got)
	}

	// Dropping closes the channel after the buffered payload drains
	if got := string(recvPayload(t, slow.send)); got != "stuck" {
		t.Errorf("slow subscriber buffer held %q, want stuck", got)
	}
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Error("slow subscriber received a payload after being dropped")
		}
	case <-time.After(2 * time.Second):
		t.Error("slow subscriber channel not closed after drop")
	}
}
