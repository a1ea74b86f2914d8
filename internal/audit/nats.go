package audit

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/nats-io/nats.go"
)

// DefaultNATSSubject is used when NewNATSSink receives an empty subject.
const DefaultNATSSubject = "blog.audit"

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATSSink publishes one JSON message per event on a fixed subject.
// Publish failures are counted, never returned; the dispatcher has no
// caller to report them to.
type NATSSink struct {
	pub     Publisher
	subject string
	failed  atomic.Uint64
}

func NewNATSSink(pub Publisher, subject string) *NATSSink {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSSink{pub: pub, subject: subject}
}

// ConnectNATS dials url and returns a sink publishing on subject along with
// the connection, which the caller must drain or close.
func ConnectNATS(url, subject string, opts ...nats.Option) (*NATSSink, *nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, err
	}
	return NewNATSSink(nc, subject), nc, nil
}

func (s *NATSSink) Emit(_ context.Context, event Event) {
	if s == nil || s.pub == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.failed.Add(1)
		return
	}
	if err := s.pub.Publish(s.subject, data); err != nil {
		s.failed.Add(1)
	}
}

// Failed returns the number of events that could not be published.
func (s *NATSSink) Failed() uint64 {
	if s == nil {
		return 0
	}
	return s.failed.Load()
}

// Subject returns the subject events are published on.
func (s *NATSSink) Subject() string {
	return s.subject
}
