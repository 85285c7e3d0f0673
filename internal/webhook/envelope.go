package webhook

import "encoding/json"

// Meta Cloud API webhook envelope. Only the fields the pipeline reads are
// modeled; everything else passes through json.RawMessage or is ignored.

type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         Metadata          `json:"metadata"`
	Contacts         []ProfileContact  `json:"contacts"`
	Messages         []Message         `json:"messages"`
	Statuses         []json.RawMessage `json:"statuses"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// ProfileContact carries the sender's WhatsApp profile name when Meta
// includes it alongside the message batch.
type ProfileContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type Message struct {
	From      string  `json:"from"`
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Type      string  `json:"type"`
	Text      *Text   `json:"text,omitempty"`
	Button    *Button `json:"button,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Button struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

// Body returns the human-readable body of the message, preferring free text
// over template button replies. Empty for media-only messages.
func (m Message) Body() string {
	if m.Text != nil && m.Text.Body != "" {
		return m.Text.Body
	}
	if m.Button != nil {
		return m.Button.Text
	}
	return ""
}
