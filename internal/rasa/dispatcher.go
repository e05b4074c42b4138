package rasa

// Dispatcher collects bot messages and events in emission order during one
// action run. Not safe for concurrent use; each webhook turn gets its own.
type Dispatcher struct {
	messages []Message
	events   []Event
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Utter appends one bot message.
func (d *Dispatcher) Utter(text string) {
	d.messages = append(d.messages, Message{Text: text})
}

// AddEvent appends one tracker event.
func (d *Dispatcher) AddEvent(e Event) {
	d.events = append(d.events, e)
}

// Messages returns the collected utterances in order.
func (d *Dispatcher) Messages() []Message {
	return d.messages
}

// Response assembles the webhook response. Slices are never nil so the
// runtime always receives JSON arrays.
func (d *Dispatcher) Response() WebhookResponse {
	resp := WebhookResponse{
		Events:    d.events,
		Responses: d.messages,
	}
	if resp.Events == nil {
		resp.Events = []Event{}
	}
	if resp.Responses == nil {
		resp.Responses = []Message{}
	}
	return resp
}
