package models

import (
	"strings"
	"time"
)

// chatUserSuffix is appended to phone numbers by the chat bridge
const chatUserSuffix = "@c.us"

// InboundMessage is a chat message delivered by the chat bridge
type InboundMessage struct {
	MessageID string    `json:"message_id" validate:"required,max=256"`
	ChatName  string    `json:"chat_name" validate:"required,max=256"`
	Author    string    `json:"author" validate:"required,max=128"`
	Body      string    `json:"body" validate:"max=65536"`
	SentAt    time.Time `json:"sent_at"`
}

// SubmitterIdentity strips the chat suffix from the author
func (m InboundMessage) SubmitterIdentity() string {
	return SubmitterIdentity(m.Author)
}

// SubmitterIdentity strips the chat suffix from a raw author id
func SubmitterIdentity(author string) string {
	return strings.TrimSuffix(strings.TrimSpace(author), chatUserSuffix)
}
