package record

import (
	"encoding/json"
	"fmt"

	"github.com/gitgovernance/gitgov/internal/record/payload"
)

// DecodePayload parses raw into the concrete payload.Payload variant
// named by kind. The sync engine does not call this in its normal
// push/pull path (payloads stay opaque JSON to it, per spec); it is
// used by record factories and by resolve's re-signing step only when
// a caller wants the typed view.
func DecodePayload(kind Kind, raw json.RawMessage) (payload.Payload, error) {
	switch kind {
	case KindTask:
		var p payload.Task
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding task payload: %w", err)
		}
		return p, nil
	case KindCycle:
		var p payload.Cycle
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding cycle payload: %w", err)
		}
		return p, nil
	case KindExecution:
		var p payload.Execution
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding execution payload: %w", err)
		}
		return p, nil
	case KindFeedback:
		var p payload.Feedback
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding feedback payload: %w", err)
		}
		return p, nil
	case KindChangelog:
		var p payload.Changelog
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding changelog payload: %w", err)
		}
		return p, nil
	case KindActor:
		var p payload.Actor
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding actor payload: %w", err)
		}
		return p, nil
	case KindAgent:
		var p payload.Agent
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("record: decoding agent payload: %w", err)
		}
		return p, nil
	case KindCustom:
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("record: decoding custom payload: %w", err)
		}
		return payload.Custom{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("record: cannot decode unknown kind %q", kind)
	}
}
