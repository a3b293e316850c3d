package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrUnknownCodec   = errors.New("unknown codec type")
)

// Codec turns frames into bytes and back. Binary codecs are sent as binary
// websocket frames.
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
	Name() string
	Binary() bool
}

// JSONCodec is what the browser script speaks.
type JSONCodec struct{}

func NewJSONCodec() *JSONCodec { return &JSONCodec{} }

func (*JSONCodec) Name() string { return "json" }
func (*JSONCodec) Binary() bool { return false }

func (*JSONCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (*JSONCodec) Decode(data []byte) (*Message, error) {
	return decode(json.Unmarshal, data)
}

// MsgPackCodec is the compact binary form.
type MsgPackCodec struct{}

func NewMsgPackCodec() *MsgPackCodec { return &MsgPackCodec{} }

func (*MsgPackCodec) Name() string { return "msgpack" }
func (*MsgPackCodec) Binary() bool { return true }

func (*MsgPackCodec) Encode(msg *Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

func (*MsgPackCodec) Decode(data []byte) (*Message, error) {
	return decode(msgpack.Unmarshal, data)
}

func decode(unmarshal func([]byte, any) error, data []byte) (*Message, error) {
	msg := new(Message)
	if err := unmarshal(data, msg); err != nil {
		return nil, errors.Wrap(ErrInvalidMessage, err.Error())
	}
	return msg, nil
}

// CodecFor resolves the vsn query parameter of a live connection. An empty
// name selects JSON.
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", "json":
		return NewJSONCodec(), nil
	case "msgpack":
		return NewMsgPackCodec(), nil
	}
	return nil, errors.Wrapf(ErrUnknownCodec, "%q", name)
}
