package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"40722000001", "+40722000001"},
		{"+40722000001", "+40722000001"},
		{" 40722000001 ", "+40722000001"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeNumber(tc.in); got != tc.want {
			t.Fatalf("NormalizeNumber(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

type stubSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
	done chan struct{}
}

func (s *stubSender) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	s.sent = append(s.sent, Message{To: to, Body: body})
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return s.err
}

func (s *stubSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func TestDispatcher_DeliversQueuedMessages(t *testing.T) {
	sender := &stubSender{done: make(chan struct{}, 1)}
	d := NewDispatcher(sender)

	d.Dispatch("40722000001", "hello")

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sender was never called")
	}

	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0].To != "40722000001" || msgs[0].Body != "hello" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestDispatcher_SwallowsSenderErrors(t *testing.T) {
	sender := &stubSender{
		err:  errors.New("twilio is down"),
		done: make(chan struct{}, 2),
	}
	d := NewDispatcher(sender)

	// Neither call may panic or block, whatever the sender returns.
	d.Dispatch("40722000001", "first")
	d.Dispatch("40722000001", "second")

	for i := 0; i < 2; i++ {
		select {
		case <-sender.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("sender call %d never happened", i+1)
		}
	}
}

func TestDispatcher_IgnoresEmptyDestination(t *testing.T) {
	sender := &stubSender{done: make(chan struct{}, 1)}
	d := NewDispatcher(sender)

	d.Dispatch("", "nobody to call")

	select {
	case <-sender.done:
		t.Fatalf("expected no delivery for an empty destination")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTwilioSender_UnconfiguredSkips(t *testing.T) {
	s := &TwilioSender{}
	if s.Configured() {
		t.Fatalf("expected zero-value sender to be unconfigured")
	}
	if err := s.Send(context.Background(), "40722000001", "hello"); err != nil {
		t.Fatalf("unconfigured send must be a no-op, got %v", err)
	}
}
