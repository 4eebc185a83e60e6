package protocol

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyType    = errors.New("protocol: empty envelope type")
	ErrNilPayload   = errors.New("protocol: nil payload")
	ErrEmptyFrame   = errors.New("protocol: empty frame")
	ErrEmptyPayload = errors.New("protocol: empty payload")
)

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if payload == nil {
		return nil, ErrNilPayload
	}
	pb, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return msgpack.Marshal(Envelope{T: t, P: pb})
}

// MustEncode is Encode for payloads built by this process, which always encode.
func MustEncode(t string, payload any) []byte {
	b, err := Encode(t, payload)
	if err != nil {
		panic(err)
	}
	return b
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, ErrEmptyType
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, env.T)
	}
	if err := msgpack.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", env.T, err)
	}
	return out, nil
}
