// Package protocol is the frame format shared by the browser script and the
// live router. Frames are JSON for the browser and MessagePack for Go
// clients.
package protocol

import "time"

// MessageType is the "t" field of a frame. The numbering is part of the wire
// format.
type MessageType uint8

const (
	MsgJoin MessageType = iota
	MsgLeave
	MsgEvent
	MsgReply
	MsgDiff
	MsgPush
	MsgHeartbeat
)

var typeNames = [...]string{"join", "leave", "event", "reply", "diff", "push", "heartbeat"}

func (mt MessageType) String() string {
	if int(mt) < len(typeNames) {
		return typeNames[mt]
	}
	return "unknown"
}

// Reserved event names. Anything else is a component event.
const (
	EventJoin      = "phx_join"
	EventLeave     = "phx_leave"
	EventReply     = "phx_reply"
	EventHeartbeat = "heartbeat"
	EventDiff      = "diff"
)

// Reply statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Message is one frame. Ref ties a reply to the request that caused it;
// Topic names the socket ("lv:<id>").
type Message struct {
	Type      MessageType    `json:"t" msgpack:"t"`
	Ref       string         `json:"ref,omitempty" msgpack:"ref,omitempty"`
	Topic     string         `json:"topic" msgpack:"topic"`
	Event     string         `json:"event,omitempty" msgpack:"event,omitempty"`
	Payload   map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`
	Timestamp int64          `json:"ts,omitempty" msgpack:"ts,omitempty"` // unix millis
	JoinRef   string         `json:"join_ref,omitempty" msgpack:"join_ref,omitempty"`
}

// NewMessage stamps a frame with the current time and an empty payload.
func NewMessage(t MessageType, topic, event string) *Message {
	return &Message{
		Type:      t,
		Topic:     topic,
		Event:     event,
		Payload:   map[string]any{},
		Timestamp: time.Now().UnixMilli(),
	}
}

func (m *Message) WithRef(ref string) *Message {
	m.Ref = ref
	return m
}

func (m *Message) WithPayload(payload map[string]any) *Message {
	m.Payload = payload
	return m
}

// PayloadString returns payload[key] when it holds a string.
func (m *Message) PayloadString(key string) string {
	s, _ := m.Payload[key].(string)
	return s
}

// IsHeartbeat accepts both the typed and the named form the client may send.
func (m *Message) IsHeartbeat() bool {
	return m.Type == MsgHeartbeat || m.Event == EventHeartbeat
}

func reply(ref, topic, status string, response map[string]any) *Message {
	return NewMessage(MsgReply, topic, EventReply).WithRef(ref).WithPayload(map[string]any{
		"status":   status,
		"response": response,
	})
}

// OkReply answers the frame with ref.
func OkReply(ref, topic string, response map[string]any) *Message {
	return reply(ref, topic, StatusOK, response)
}

// ErrorReply answers the frame with ref with {"reason": reason}.
func ErrorReply(ref, topic, reason string) *Message {
	return reply(ref, topic, StatusError, map[string]any{"reason": reason})
}

// DiffMessage carries re-rendered slots to the client.
func DiffMessage(topic string, diff map[string]any) *Message {
	return NewMessage(MsgDiff, topic, EventDiff).WithPayload(diff)
}

// PushMessage is a server initiated command such as "navigate".
func PushMessage(topic, event string, payload map[string]any) *Message {
	return NewMessage(MsgPush, topic, event).WithPayload(payload)
}
