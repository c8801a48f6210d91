package media

import (
	"context"
	"fmt"

	"gopkg.in/vansante/go-ffprobe.v2"
)

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Prober runs deep validity checks on media files.
type Prober struct {
	probe probeFunc
}

// NewProber constructs a Prober backed by ffprobe.
func NewProber() *Prober {
	return &Prober{probe: ffprobe.ProbeURL}
}

// WithProbeFunc injects a custom probe implementation for tests.
func (p *Prober) WithProbeFunc(fn probeFunc) {
	if p != nil && fn != nil {
		p.probe = fn
	}
}

// DeepCheck probes a media file and fails when the container is unreadable
// or carries no streams.
func (p *Prober) DeepCheck(ctx context.Context, path string) error {
	data, err := p.probe(ctx, path)
	if err != nil {
		return fmt.Errorf("probe %s: %w", path, err)
	}
	if data == nil || len(data.Streams) == 0 {
		return fmt.Errorf("probe %s: no streams", path)
	}
	return nil
}
