// Package rasa models the Rasa action-server webhook contract: the request
// the dialogue runtime sends when it delegates a custom action, and the
// ordered messages and events the action returns.
package rasa

import "encoding/json"

// WebhookRequest is the payload delivered to POST /webhook.
type WebhookRequest struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    Tracker `json:"tracker"`
	Version    string  `json:"version"`
}

// Tracker carries the conversation state the runtime exposes to actions.
// Only the fields the handlers read are modeled; the rest of the runtime's
// tracker is ignored on decode.
type Tracker struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage LatestMessage  `json:"latest_message"`
}

// LatestMessage is the user turn that triggered the action.
type LatestMessage struct {
	Text     string   `json:"text"`
	Intent   Intent   `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Intent is the runtime's classification of the latest message.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Entity is a single extracted entity from the latest message.
type Entity struct {
	Entity string `json:"entity"`
	Value  string `json:"value"`
}

// EntityValue returns the first value extracted for the named entity, or ""
// when the runtime extracted none. Mirrors how the dialogue runtime exposes
// latest entity values to actions.
func (t *Tracker) EntityValue(name string) string {
	for _, e := range t.LatestMessage.Entities {
		if e.Entity == name && e.Value != "" {
			return e.Value
		}
	}
	return ""
}

// SlotString returns the named slot as a string, or "" when absent or not
// textual.
func (t *Tracker) SlotString(name string) string {
	if s, ok := t.Slots[name].(string); ok {
		return s
	}
	return ""
}

// EntityOrSlot prefers a freshly extracted entity over a slot carried from
// earlier turns.
func (t *Tracker) EntityOrSlot(name string) string {
	if v := t.EntityValue(name); v != "" {
		return v
	}
	return t.SlotString(name)
}

// WebhookResponse is what the action server returns: conversation events
// followed by the bot messages, both in emission order.
type WebhookResponse struct {
	Events    []Event   `json:"events"`
	Responses []Message `json:"responses"`
}

// Message is one bot utterance.
type Message struct {
	Text string `json:"text"`
}

// Event is a tracker mutation the runtime applies after the action.
type Event struct {
	Event     string          `json:"event"`
	Timestamp *float64        `json:"timestamp"`
	Name      string          `json:"name,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// SlotSet builds a slot-set event. A marshal failure cannot occur for the
// string values the handlers store, so value is marshaled without error
// handling.
func SlotSet(name string, value string) Event {
	raw, _ := json.Marshal(value)
	return Event{Event: "slot", Name: name, Value: raw}
}
