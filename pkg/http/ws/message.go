package ws

import "encoding/json"

// MessageType constants for the board feed protocol. The feed is one-way:
// board screens only receive state, all actions go through the REST API.
const (
	TypeStateUpdate = "state_update"
	TypeTimerTick   = "timer_tick"
	TypeError       = "error"
)

// Message wraps all board feed payloads.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// StateUpdatePayload carries a full session snapshot tagged with the event
// that produced it. State is kept opaque here so the hub stays independent
// of the game engine's types.
type StateUpdatePayload struct {
	Event string          `json:"event"`
	State json.RawMessage `json:"state"`
}

// TimerTickPayload is the once-per-second countdown heartbeat.
type TimerTickPayload struct {
	Phase            string `json:"phase"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// ErrorPayload reports a feed-level failure to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewStateUpdate builds a state_update message from marshalled payload
// parts, swallowing marshal errors into an error message.
func NewStateUpdate(event string, state json.RawMessage) Message {
	payload, err := json.Marshal(StateUpdatePayload{Event: event, State: state})
	if err != nil {
		return Message{Type: TypeError}
	}
	return Message{Type: TypeStateUpdate, Payload: payload}
}

// NewTimerTick builds a timer_tick message.
func NewTimerTick(phase string, remaining int) Message {
	payload, _ := json.Marshal(TimerTickPayload{Phase: phase, RemainingSeconds: remaining})
	return Message{Type: TypeTimerTick, Payload: payload}
}
