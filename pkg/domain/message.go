package domain

// Attachment is a media payload carried by an inbound message.
type Attachment struct {
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// Inbound is an event delivered by the messaging transport.
type Inbound struct {
	// EventID correlates log lines for one delivery; assigned by the
	// transport, not by the sender.
	EventID        string      `json:"eventId,omitempty"`
	ConversationID string      `json:"conversationId"`
	FromSelf       bool        `json:"fromSelf,omitempty"`
	IsGroup        bool        `json:"isGroup,omitempty"`
	Text           string      `json:"text"`
	HasAttachment  bool        `json:"hasAttachment,omitempty"`
	Attachment     *Attachment `json:"attachment,omitempty"`
}

// Outbound is a reply to be delivered to a conversation.
type Outbound struct {
	ConversationID string `json:"conversationId"`
	Text           string `json:"text"`
}
