package widgets

import (
	"fmt"
	"log/slog"

	"github.com/lawl/pulseaudio"
)

func init() {
	registerMixer("pulse", openPulseMixer)
}

// pulseMixer adapts the pure-Go PulseAudio native-protocol client to the
// Mixer interface. All operations target the default sink.
type pulseMixer struct {
	client  *pulseaudio.Client
	updates <-chan struct{}
	logger  *slog.Logger
}

func openPulseMixer(logger *slog.Logger) (Mixer, error) {
	client, err := pulseaudio.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pulseaudio: %w", err)
	}
	updates, err := client.Updates()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to subscribe to pulseaudio updates: %w", err)
	}
	return &pulseMixer{client: client, updates: updates, logger: logger}, nil
}

func (m *pulseMixer) Volume() (float64, error) {
	v, err := m.client.Volume()
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}

func (m *pulseMixer) SetVolume(v float64) error {
	return m.client.SetVolume(float32(v))
}

func (m *pulseMixer) Muted() (bool, error) {
	info, err := m.client.ServerInfo()
	if err != nil {
		return false, err
	}
	sinks, err := m.client.Sinks()
	if err != nil {
		return false, err
	}
	for _, s := range sinks {
		if s.Name == info.DefaultSink {
			return s.Muted, nil
		}
	}
	return false, fmt.Errorf("default sink %q not found", info.DefaultSink)
}

func (m *pulseMixer) ToggleMute() error {
	_, err := m.client.ToggleMute()
	return err
}

func (m *pulseMixer) Updates() <-chan struct{} {
	return m.updates
}

func (m *pulseMixer) Close() error {
	m.client.Close()
	return nil
}
