package turn

import (
	"bytes"
	"errors"
	"testing"

	"github.com/termchat/termchat/llm"
)

// fakeStream replays a fixed fragment sequence, optionally failing after
// the last fragment.
type fakeStream struct {
	frags  []string
	err    error
	pos    int
	closed bool
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.frags) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Text() string {
	return s.frags[s.pos-1]
}

func (s *fakeStream) Err() error { return s.err }

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func TestCollectConcatenatesInOrder(t *testing.T) {
	var out bytes.Buffer
	s := &fakeStream{frags: []string{"Hel", "lo", " ", "world"}}

	msg, err := Collect(s, &out)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if msg.Role != llm.RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, llm.RoleAssistant)
	}
	if msg.Content != "Hello world" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hello world")
	}
	if out.String() != "Hello world" {
		t.Errorf("echoed output = %q, want %q", out.String(), "Hello world")
	}
	if !s.closed {
		t.Error("stream was not closed")
	}
}

func TestCollectKeepsEmptyFragments(t *testing.T) {
	var out bytes.Buffer
	s := &fakeStream{frags: []string{"a", "", "b"}}

	msg, err := Collect(s, &out)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if msg.Content != "ab" {
		t.Errorf("Content = %q, want %q", msg.Content, "ab")
	}
}

func TestCollectEmptyStream(t *testing.T) {
	var out bytes.Buffer
	msg, err := Collect(&fakeStream{}, &out)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if msg.Content != "" {
		t.Errorf("Content = %q, want empty", msg.Content)
	}
	if msg.Role != llm.RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, llm.RoleAssistant)
	}
}

func TestCollectStreamError(t *testing.T) {
	var out bytes.Buffer
	s := &fakeStream{frags: []string{"partial"}, err: errors.New("connection reset")}

	_, err := Collect(s, &out)
	if err == nil {
		t.Fatal("expected error from failed stream")
	}
	// Whatever was already streamed stays on screen.
	if out.String() != "partial" {
		t.Errorf("echoed output = %q, want %q", out.String(), "partial")
	}
	if !s.closed {
		t.Error("stream was not closed on error")
	}
}
