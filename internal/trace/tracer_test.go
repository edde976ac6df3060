package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestNopTracerImplementsTracer(t *testing.T) {
	var tr Tracer = Nop
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver})
	if tr.Enabled() {
		t.Fatalf("expected Nop to be disabled")
	}
}

func TestRingTracerRecordsAndDumps(t *testing.T) {
	rt := NewRingTracer(4, LevelDetail)
	rt.Emit(&Event{Kind: KindSpanBegin, Scope: ScopeModule, Name: "hir"})
	rt.Emit(&Event{Kind: KindSpanEnd, Scope: ScopeModule, Name: "hir"})

	events := rt.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events in the ring, got %d", len(events))
	}

	var buf bytes.Buffer
	if err := rt.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "hir") {
		t.Fatalf("expected dump to mention the span name, got: %s", buf.String())
	}
}

func TestMultiTracerFansOutToEveryUnderlyingTracer(t *testing.T) {
	a := NewRingTracer(4, LevelDetail)
	b := NewRingTracer(4, LevelDetail)
	multi := NewMultiTracer(LevelDetail, a, b)

	ev := &Event{Kind: KindPoint, Scope: ScopeDriver, Name: "diagnose"}
	multi.Emit(ev)

	if len(a.Snapshot()) != 1 || len(b.Snapshot()) != 1 {
		t.Fatalf("expected both underlying ring tracers to record the event")
	}
	if err := multi.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := multi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewBuildsRingTracerForRingMode(t *testing.T) {
	tracer, err := New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tracer.(*RingTracer); !ok {
		t.Fatalf("expected a *RingTracer, got %T", tracer)
	}
}

func TestNewReturnsNopWhenLevelOff(t *testing.T) {
	tracer, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tracer.Enabled() {
		t.Fatalf("expected a disabled tracer for LevelOff")
	}
}

func TestBeginEndRecordsASpan(t *testing.T) {
	rt := NewRingTracer(8, LevelPhase)
	span := Begin(rt, ScopePass, "driver.hir", 0)
	if span == nil {
		t.Fatalf("expected a non-nil span")
	}
	span.End("ok")

	events := rt.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected a begin and an end event, got %d", len(events))
	}
	if events[0].Kind != KindSpanBegin || events[1].Kind != KindSpanEnd {
		t.Fatalf("unexpected event kinds: %v, %v", events[0].Kind, events[1].Kind)
	}
}
