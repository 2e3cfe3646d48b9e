package web

import (
	"encoding/json"
	"testing"
	"time"
)

// receive waits for one event on ch and decodes it.
func receive(t *testing.T, ch <-chan string) StatusEvent {
	t.Helper()
	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
	return StatusEvent{}
}

func TestBroadcaster_SubscribeAndReceive(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	b.Broadcast("info", "hello")

	evt := receive(t, ch)
	if evt.Msg != "hello" {
		t.Errorf("msg = %q, want \"hello\"", evt.Msg)
	}
	if evt.Level != "info" {
		t.Errorf("level = %q, want \"info\"", evt.Level)
	}
	if evt.Time == "" {
		t.Error("event should have a timestamp")
	}
	if evt.PlanID != "" {
		t.Errorf("plan = %q, want empty", evt.PlanID)
	}
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := NewStatusBroadcaster()
	ch1, unsub1 := b.Subscribe()
	defer unsub1()
	ch2, unsub2 := b.Subscribe()
	defer unsub2()

	b.Broadcast("info", "multi")

	for i, ch := range []<-chan string{ch1, ch2} {
		if evt := receive(t, ch); evt.Msg != "multi" {
			t.Errorf("subscriber %d: msg = %q, want \"multi\"", i, evt.Msg)
		}
	}
}

func TestBroadcaster_BroadcastPlan(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	b.BroadcastPlan("0f8c", "9 waypoints")

	evt := receive(t, ch)
	if evt.Level != "plan" || evt.PlanID != "0f8c" || evt.Msg != "9 waypoints" {
		t.Errorf("event = %+v, want plan 0f8c with message", evt)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after unsubscribe")
	}
	// A second call must not panic on the closed channel.
	unsub()
}

func TestBroadcaster_FullChannelDropsMessage(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < 64; i++ {
		b.Broadcast("info", "fill")
	}
	// Must not block: the message is dropped.
	b.Broadcast("info", "overflow")

	count := 0
	for len(ch) > 0 {
		<-ch
		count++
	}
	if count != 64 {
		t.Errorf("expected 64 buffered messages, got %d", count)
	}
}

func TestBroadcaster_AfterUnsubscribeBroadcastDoesNotPanic(t *testing.T) {
	b := NewStatusBroadcaster()
	_, unsub := b.Subscribe()
	unsub()

	b.Broadcast("info", "after unsub")
}

func TestBroadcastWriter_Write(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	w := BroadcastWriter(b)
	in := "  [NadirGo] trimmed message  \n"
	n, err := w.Write([]byte(in))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n != len(in) {
		t.Errorf("n = %d, want %d", n, len(in))
	}

	evt := receive(t, ch)
	if evt.Msg != "[NadirGo] trimmed message" {
		t.Errorf("msg = %q, want \"[NadirGo] trimmed message\"", evt.Msg)
	}
	if evt.Level != "log" {
		t.Errorf("level = %q, want \"log\"", evt.Level)
	}
}

func TestBroadcastWriter_EmptyWriteIgnored(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	BroadcastWriter(b).Write([]byte("   \n"))

	select {
	case <-ch:
		t.Error("expected no message for whitespace-only write")
	case <-time.After(50 * time.Millisecond):
	}
}
