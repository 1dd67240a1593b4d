package audio

import (
	"context"
	"fmt"
	"sync"

	"unmute-go/internal/logger"
)

// Device accepts a tagged buffer and plays it immediately.
type Device interface {
	Play(ctx context.Context, buf Buffer) error
}

// DeviceFactory opens the shared playback device.
type DeviceFactory func() (Device, error)

// Player owns the single playback context. The device is opened on the first
// successful play request and reused afterwards.
type Player struct {
	open DeviceFactory
	log  *logger.Logger

	mu     sync.Mutex
	device Device
}

func NewPlayer(open DeviceFactory, log *logger.Logger) *Player {
	return &Player{open: open, log: log.Component("audio.player")}
}

func (p *Player) context() (Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device != nil {
		return p.device, nil
	}
	dev, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("open playback device: %w", err)
	}
	p.device = dev
	return dev, nil
}

// Opened reports whether the playback context has been created.
func (p *Player) Opened() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device != nil
}

// PlayBase64 decodes a raw PCM payload and schedules it for playback. Failures
// are logged and reported only through the return value.
func (p *Player) PlayBase64(ctx context.Context, payload string) bool {
	dev, err := p.context()
	if err != nil {
		p.log.WithError(err).Error("playback unavailable")
		return false
	}
	buf, err := DecodePCM(payload)
	if err != nil {
		p.log.WithError(err).Error("error playing audio")
		return false
	}
	if err := dev.Play(ctx, buf); err != nil {
		p.log.WithError(err).Error("error playing audio")
		return false
	}
	p.log.WithField("frames", buf.Frames()).WithField("duration_ms", buf.Duration().Milliseconds()).Debug("audio scheduled")
	return true
}
