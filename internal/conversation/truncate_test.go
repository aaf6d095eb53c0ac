package conversation

import (
	"testing"
)

func sampleLog() Log {
	return Log{
		{ID: "i1", Kind: KindMessage, Role: RoleSystem, Content: "a"},
		{ID: "i2", Kind: KindMessage, Role: RoleUser, Content: "hi"},
		{ID: "i3", Kind: KindFunctionCall, Name: "f1", CallID: "c1"},
		{ID: "i4", Kind: KindFunctionCallOutput, Name: "f1", CallID: "c1", Content: "ok"},
		{ID: "i5", Kind: KindMessage, Role: RoleAssistant, Content: "done"},
	}
}

func TestTruncateFiltersSystemAndCalls(t *testing.T) {
	got := Truncate(sampleLog(), TruncateOptions{KeepLastN: 3})

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(got), got)
	}
	if got[0].Content != "hi" || got[0].Role != RoleUser {
		t.Fatalf("unexpected first item: %+v", got[0])
	}
	if got[1].Content != "done" || got[1].Role != RoleAssistant {
		t.Fatalf("unexpected second item: %+v", got[1])
	}
}

func TestTruncateKeepSystem(t *testing.T) {
	got := Truncate(sampleLog(), TruncateOptions{KeepLastN: 5, KeepSystem: true})

	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(got), got)
	}
	if got[0].Role != RoleSystem {
		t.Fatalf("expected system item first, got %+v", got[0])
	}
}

func TestTruncateNeverStartsWithCall(t *testing.T) {
	log := Log{
		{ID: "i1", Kind: KindMessage, Role: RoleUser, Content: "hi"},
		{ID: "i2", Kind: KindFunctionCall, Name: "f1", CallID: "c1"},
		{ID: "i3", Kind: KindFunctionCallOutput, Name: "f1", CallID: "c1", Content: "ok"},
		{ID: "i4", Kind: KindMessage, Role: RoleAssistant, Content: "done"},
	}

	// Quota of 3 admits the call, its output and the final message; the
	// leading call pair must still be dropped from the window.
	got := Truncate(log, TruncateOptions{KeepLastN: 3, KeepFunctionCalls: true})
	if len(got) == 0 {
		t.Fatal("expected non-empty result")
	}
	if got[0].IsCall() {
		t.Fatalf("window starts with a call item: %+v", got[0])
	}
	if got[0].Content != "done" {
		t.Fatalf("unexpected first item: %+v", got[0])
	}
}

func TestTruncateAllCallsYieldsEmpty(t *testing.T) {
	log := Log{
		{ID: "i1", Kind: KindFunctionCall, Name: "f1", CallID: "c1"},
		{ID: "i2", Kind: KindFunctionCallOutput, Name: "f1", CallID: "c1"},
	}

	got := Truncate(log, TruncateOptions{KeepLastN: 4, KeepFunctionCalls: true})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestTruncateIdempotent(t *testing.T) {
	opts := []TruncateOptions{
		{KeepLastN: 3},
		{KeepLastN: 2, KeepSystem: true},
		{KeepLastN: 6, KeepFunctionCalls: true},
		{},
	}

	for _, opt := range opts {
		first := Truncate(sampleLog(), opt)
		second := Truncate(first, opt)
		if len(first) != len(second) {
			t.Fatalf("opts %+v: lengths differ: %d vs %d", opt, len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Fatalf("opts %+v: item %d differs: %s vs %s", opt, i, first[i].ID, second[i].ID)
			}
		}
	}
}

func TestTruncateQuota(t *testing.T) {
	var log Log
	for i := 0; i < 20; i++ {
		log = append(log, NewMessage(RoleUser, "turn"))
	}

	got := Truncate(log, TruncateOptions{KeepLastN: 6})
	if len(got) != 6 {
		t.Fatalf("expected 6 items, got %d", len(got))
	}
	// Must be the most recent six, in order.
	for i := range got {
		if got[i].ID != log[len(log)-6+i].ID {
			t.Fatalf("item %d is not from the tail of the source log", i)
		}
	}
}

func TestTruncateDefaultLimit(t *testing.T) {
	var log Log
	for i := 0; i < 10; i++ {
		log = append(log, NewMessage(RoleUser, "turn"))
	}
	got := Truncate(log, TruncateOptions{})
	if len(got) != DefaultKeepLastN {
		t.Fatalf("expected default limit %d, got %d", DefaultKeepLastN, len(got))
	}
}
