package manager

import (
	"context"

	"github.com/google/uuid"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/utils"
)

// AddChannelData appends one externally supplied link
func (m *Manager) AddChannelData(data model.ChannelData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, data)
	return nil
}

// IntegrateChannels replaces the ingested links
func (m *Manager) IntegrateChannels(data []model.ChannelData) error {
	for i := range data {
		if err := data[i].Validate(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels[:0:0], data...)
	log.Infof("Integrated %d channels", len(data))
	return nil
}

// Channels returns the ingested links
func (m *Manager) Channels() []model.ChannelData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ChannelData(nil), m.channels...)
}

// SaveChannels stores the ingested links as a new snapshot and returns its id
func (m *Manager) SaveChannels(ctx context.Context) (string, error) {
	snapshotId := uuid.New().String()
	if err := m.store.AddChannelGroup(ctx, snapshotId, m.Channels()); err != nil {
		return "", err
	}
	return snapshotId, nil
}

// LoadChannels integrates the links of a stored snapshot
func (m *Manager) LoadChannels(ctx context.Context, snapshotId string) error {
	group, err := m.store.GetChannelGroup(ctx, snapshotId)
	if err != nil {
		return err
	}
	return m.IntegrateChannels(group)
}

// RunWithChannels integrates data and runs every link through subpath
// synthesis, gains, path loss, channel synthesis and allocation. Links share
// one random source seeded from the config and are run in order.
func (m *Manager) RunWithChannels(ctx context.Context, data []model.ChannelData) ([]*Result, error) {
	if err := m.IntegrateChannels(data); err != nil {
		return nil, err
	}
	return m.RunIntegrated(ctx)
}

// RunIntegrated runs every ingested link
func (m *Manager) RunIntegrated(ctx context.Context) ([]*Result, error) {
	src := utils.NewSource(m.config.Seed)
	channels := m.Channels()
	results := make([]*Result, 0, len(channels))
	for i := range channels {
		res, err := m.run(ctx, src, &channels[i])
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
