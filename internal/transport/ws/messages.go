package ws

import "encoding/json"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MsgWelcome confirms the subscription after connect
	MsgWelcome MessageType = "welcome"

	// MsgAgentUpdate carries one session progress record
	MsgAgentUpdate MessageType = "agent_update"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: data}, nil
}
