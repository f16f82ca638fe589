package codec

import (
	"errors"

	"github.com/go-wamp/session/wamp"
	"github.com/ugorji/go/codec"
)

var jsonHandle = &codec.JsonHandle{}

// JSON encodes and decodes WAMP messages using the wamp.2.json frame
// format.
type JSON struct{}

// Encode converts msg to its wire-format JSON frame.
func (JSON) Encode(msg wamp.Message) ([]byte, error) {
	var b []byte
	return b, codec.NewEncoderBytes(&b, jsonHandle).Encode(msgToList(msg))
}

// Decode parses a wire-format JSON frame into a Message.
func (JSON) Decode(data []byte) (wamp.Message, error) {
	var v []interface{}
	if err := codec.NewDecoderBytes(data, jsonHandle).Decode(&v); err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, errors.New("invalid message")
	}

	// The JSON decoder gives us an uint64 for the leading type code; this
	// doesn't matter since valid values are only within an 8-bit range.
	typ, ok := v[0].(uint64)
	if !ok {
		return nil, errors.New("unsupported message format")
	}
	return listToMsg(wamp.MessageType(typ), v)
}
