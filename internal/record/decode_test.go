package record

import (
	"encoding/json"
	"testing"

	"github.com/gitgovernance/gitgov/internal/record/payload"
)

func TestDecodePayload_Task(t *testing.T) {
	raw := json.RawMessage(`{"id":"1700000000-task-x","title":"x","status":"draft","priority":"high"}`)
	decoded, err := DecodePayload(KindTask, raw)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	task, ok := decoded.(payload.Task)
	if !ok {
		t.Fatalf("expected payload.Task, got %T", decoded)
	}
	if task.Status != payload.TaskDraft || task.Priority != payload.PriorityHigh {
		t.Errorf("decoded task = %+v", task)
	}
}

func TestDecodePayload_Actor(t *testing.T) {
	raw := json.RawMessage(`{"id":"human:alice","type":"human","displayName":"Alice","publicKey":"x","roles":["owner"]}`)
	decoded, err := DecodePayload(KindActor, raw)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	actor, ok := decoded.(payload.Actor)
	if !ok {
		t.Fatalf("expected payload.Actor, got %T", decoded)
	}
	if actor.Type != payload.ActorHuman {
		t.Errorf("actor.Type = %v, want human", actor.Type)
	}
}

func TestDecodePayload_UnknownKind(t *testing.T) {
	if _, err := DecodePayload(Kind("bogus"), json.RawMessage(`{}`)); err == nil {
		t.Error("expected error decoding an unknown kind")
	}
}

func TestDecodePayload_Custom(t *testing.T) {
	decoded, err := DecodePayload(KindCustom, json.RawMessage(`{"a":1}`))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	custom, ok := decoded.(payload.Custom)
	if !ok {
		t.Fatalf("expected payload.Custom, got %T", decoded)
	}
	if custom.Fields["a"] != float64(1) {
		t.Errorf("custom.Fields = %+v", custom.Fields)
	}
}

func TestKind_Valid(t *testing.T) {
	if !KindTask.Valid() {
		t.Error("KindTask should be valid")
	}
	if Kind("bogus").Valid() {
		t.Error("an unknown kind should not be valid")
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("expected error for unknown kind string")
	}
	k, err := ParseKind("actor")
	if err != nil || k != KindActor {
		t.Errorf("ParseKind(actor) = %v, %v", k, err)
	}
}
