// Package audio converts captured clips into transport payloads and raw PCM
// speech payloads back into playable float buffers.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Speech payloads are headerless PCM: mono, signed 16-bit little-endian, 24kHz.
const (
	SampleRate = 24000
	Channels   = 1
)

var ErrEmptyClip = errors.New("audio: empty clip")

// Buffer is a playable waveform with samples normalized to [-1.0, 1.0].
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames is the number of sample frames across all channels.
func (b Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// EncodeClip reads a finished capture and returns it as a bare base64 payload.
func EncodeClip(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read clip: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrEmptyClip
	}
	return StripDataURI(EncodeBytes(raw)), nil
}

func EncodeBytes(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// StripDataURI drops a "data:<mime>;base64," prefix if present.
func StripDataURI(payload string) string {
	if !strings.HasPrefix(payload, "data:") {
		return payload
	}
	if i := strings.IndexByte(payload, ','); i >= 0 {
		return payload[i+1:]
	}
	return payload
}

// DecodeBase64 is the inverse of EncodeClip.
func DecodeBase64(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(StripDataURI(payload)))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return raw, nil
}

// DecodePCM turns a base64 raw PCM payload into a 24kHz mono buffer.
func DecodePCM(payload string) (Buffer, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{
		SampleRate: SampleRate,
		Channels:   Channels,
		Samples:    PCM16ToFloat(raw),
	}, nil
}

// PCM16ToFloat reinterprets little-endian int16 samples as floats. A trailing
// odd byte is dropped.
func PCM16ToFloat(raw []byte) []float32 {
	n := len(raw) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		out[i] = float32(s) / 32768
	}
	return out
}
