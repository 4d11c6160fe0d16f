// Package hub fans the annotated frame stream and the status event
// stream out to websocket subscribers. A slow subscriber is dropped
// rather than allowed to stall the frame cycle.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/hazardcam/hazardcam/internal/log"
)

// Feed delivers one stream to its subscribers. A frame feed carries
// binary JPEG payloads; a status feed carries JSON events.
type Feed struct {
	name   string
	binary bool

	subs       map[*subscriber]bool
	publish    chan []byte
	register   chan *subscriber
	unregister chan *subscriber

	// Guards subs for ClientCount; the Run goroutine owns all writes.
	mu sync.RWMutex
}

// NewFrameFeed creates the binary feed for annotated JPEG frames.
func NewFrameFeed() *Feed {
	return newFeed("frames", true, 8)
}

// NewStatusFeed creates the JSON feed for pipeline status events.
func NewStatusFeed() *Feed {
	return newFeed("status", false, 64)
}

func newFeed(name string, binary bool, depth int) *Feed {
	return &Feed{
		name:       name,
		binary:     binary,
		subs:       make(map[*subscriber]bool),
		publish:    make(chan []byte, depth),
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
	}
}

// Run drives the feed's fan-out loop. Call in a goroutine.
func (f *Feed) Run() {
	for {
		select {
		case sub := <-f.register:
			f.mu.Lock()
			f.subs[sub] = true
			count := len(f.subs)
			f.mu.Unlock()
			log.Debug("feed subscriber connected", "feed", f.name, "subscribers", count)

		case sub := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.subs[sub]; ok {
				delete(f.subs, sub)
				close(sub.send)
			}
			count := len(f.subs)
			f.mu.Unlock()
			log.Debug("feed subscriber disconnected", "feed", f.name, "subscribers", count)

		case payload := <-f.publish:
			f.mu.Lock()
			for sub := range f.subs {
				select {
				case sub.send <- payload:
				default:
					// Subscriber cannot keep up with the stream:
					// drop them rather than stall the publisher.
					close(sub.send)
					delete(f.subs, sub)
					log.Warn("dropped slow feed subscriber", "feed", f.name)
				}
			}
			f.mu.Unlock()
		}
	}
}

// PublishFrame offers an annotated JPEG frame to the feed. Never
// blocks: if the feed is saturated the frame is skipped, and the next
// cycle produces a fresh one anyway.
func (f *Feed) PublishFrame(jpeg []byte) {
	f.offer(jpeg)
}

// PublishJSON encodes v and offers it to the feed.
func (f *Feed) PublishJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.offer(data)
	return nil
}

func (f *Feed) offer(payload []byte) {
	select {
	case f.publish <- payload:
	default:
		log.Warn("feed saturated, payload skipped", "feed", f.name)
	}
}

// ClientCount returns the number of connected subscribers.
func (f *Feed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
