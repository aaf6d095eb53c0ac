package persona

import (
	"errors"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Persona{Key: "coordinator", Instructions: "route"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(Persona{Key: "learn", Instructions: "teach"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	p, ok := reg.Get("coordinator")
	if !ok || p.Instructions != "route" {
		t.Fatalf("unexpected persona: %+v ok=%v", p, ok)
	}
	if _, ok := reg.Get("quiz"); ok {
		t.Fatal("Get returned unregistered persona")
	}

	keys := reg.Keys()
	if len(keys) != 2 || keys[0] != "coordinator" || keys[1] != "learn" {
		t.Fatalf("unexpected key order: %v", keys)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Persona{Key: "quiz"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := reg.Register(Persona{Key: "quiz"})
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
	var dup DuplicateRegistrationError
	if !errors.As(err, &dup) || dup.Key != "quiz" {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("registry mutated by failed registration: %d personas", reg.Len())
	}
}

func TestSessionStateActivation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Persona{Key: "coordinator", Instructions: "you coordinate"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	state := NewSessionState(reg)

	if _, ok := state.Current(); ok {
		t.Fatal("expected no active persona before activation")
	}

	if err := state.Activate("nope"); !IsUnknownPersona(err) {
		t.Fatalf("expected UnknownPersonaError, got %v", err)
	}
	if state.CurrentKey() != "" {
		t.Fatal("failed activation changed state")
	}

	if err := state.Activate("coordinator"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	cur, ok := state.Current()
	if !ok || cur.Key != "coordinator" {
		t.Fatalf("unexpected current persona: %+v ok=%v", cur, ok)
	}

	log := state.ActiveLog()
	if len(log) != 1 || log[0].Role != "system" || log[0].Content != "you coordinate" {
		t.Fatalf("expected fresh system instruction in log, got %+v", log)
	}
}
