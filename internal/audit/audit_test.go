package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Emit(_ context.Context, e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type fakePublisher struct {
	mu      sync.Mutex
	subject string
	msgs    [][]byte
	err     error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subject = subject
	p.msgs = append(p.msgs, data)
	return nil
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &recordingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), Event{EventType: "x"})
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("nil dispatcher should report zero counters")
	}
}

func TestDispatcherDeliversOnClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "post_created", ResourceID: int64(i + 1)})
	}
	d.Close()

	if sink.len() != 10 {
		t.Fatalf("expected 10 delivered events, got %d", sink.len())
	}
	if d.Delivered() != 10 {
		t.Fatalf("expected delivered counter 10, got %d", d.Delivered())
	}
	for _, e := range sink.events {
		if e.ID == "" {
			t.Fatal("expected dispatcher to stamp an event id")
		}
		if e.Timestamp.IsZero() {
			t.Fatal("expected dispatcher to stamp a timestamp")
		}
	}

	d.Emit(context.Background(), Event{EventType: "after_close"})
	if sink.len() != 10 {
		t.Fatal("events emitted after Close must be ignored")
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Emit(context.Context, Event) {
	<-s.release
}

func TestDispatcherDropIfFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// One event is taken by the worker, one fills the buffer, the rest drop.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "like"})
	}
	deadline := time.Now().Add(time.Second)
	for d.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a full buffer")
	}
	close(sink.release)
	d.Close()
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Event{ID: "e1", EventType: "signup_success", UserID: 7, Success: true})

	var decoded Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.UserID != 7 || decoded.EventType != "signup_success" {
		t.Fatalf("unexpected event: %+v", decoded)
	}
}

func TestSlogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewSlogSink(logger)

	sink.Emit(context.Background(), Event{EventType: "post_deleted", UserID: 1, ResourceType: "post", ResourceID: 3, Success: true})
	sink.Emit(context.Background(), Event{EventType: "access_forbidden", UserID: 2, Success: false, Error: "forbidden"})

	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "event_type=post_deleted") {
		t.Fatalf("missing info line: %s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error=forbidden") {
		t.Fatalf("missing warn line: %s", out)
	}
}

func TestNATSSinkPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewNATSSink(pub, "")

	sink.Emit(context.Background(), Event{ID: "e2", EventType: "post_liked", ResourceID: 9, Success: true})

	if pub.subject != DefaultNATSSubject {
		t.Fatalf("expected default subject, got %q", pub.subject)
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.msgs))
	}
	var decoded Event
	if err := json.Unmarshal(pub.msgs[0], &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ResourceID != 9 {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestNATSSinkCountsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection closed")}
	sink := NewNATSSink(pub, "custom.subject")

	sink.Emit(context.Background(), Event{EventType: "post_liked"})
	sink.Emit(context.Background(), Event{EventType: "post_liked"})

	if sink.Failed() != 2 {
		t.Fatalf("expected 2 failures, got %d", sink.Failed())
	}
	if sink.Subject() != "custom.subject" {
		t.Fatalf("unexpected subject %q", sink.Subject())
	}
}
