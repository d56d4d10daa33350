package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Store keeps externally supplied channel data and run summaries by snapshot id
type Store interface {
	AddChannelGroup(ctx context.Context, snapshotId string, group []model.ChannelData) error
	GetChannelGroup(ctx context.Context, snapshotId string) ([]model.ChannelData, error)
	DeleteChannelGroup(ctx context.Context, snapshotId string) ([]model.ChannelData, error)
	AddRunSummary(ctx context.Context, runId string, summary interface{}) error
	GetRunSummary(ctx context.Context, runId string, summary interface{}) error
}

type RedisStore struct {
	ChannelDB *redis.Client
}

func InitClient(redisHost, redisPort, db, username, password string) *redis.Client {

	database, err := strconv.Atoi(db)
	if err != nil {
		log.Error(err)
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Username: username,
		Password: password,
		DB:       database,
	})
}

// Connect creates the client and pings the server, retrying with exponential
// backoff up to maxRetries times
func Connect(ctx context.Context, cfg model.RedisConfig, maxRetries uint64) (*RedisStore, error) {
	client := InitClient(cfg.Host, cfg.Port, cfg.DB, cfg.Username, cfg.Password)
	if client == nil {
		return nil, fmt.Errorf("invalid redis database %q", cfg.DB)
	}

	ping := func() error {
		err := client.Ping(ctx).Err()
		if err != nil {
			log.Warnf("redis %s:%s not reachable: %v", cfg.Host, cfg.Port, err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s:%s: %v", cfg.Host, cfg.Port, err)
	}
	log.Infof("Connected to redis %s:%s", cfg.Host, cfg.Port)
	return &RedisStore{ChannelDB: client}, nil
}

func (s *RedisStore) AddChannelGroup(ctx context.Context, snapshotId string, group []model.ChannelData) error {

	groupBytes, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal channel group: %v ", err)
	}

	return s.ChannelDB.Set(ctx, snapshotId+"-ChannelGroup", groupBytes, time.Duration(0)).Err()
}

func (s *RedisStore) GetChannelGroup(ctx context.Context, snapshotId string) ([]model.ChannelData, error) {
	groupBytes, err := s.ChannelDB.Get(ctx, snapshotId+"-ChannelGroup").Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching channel group data for snapshot id %s: %v", snapshotId, err)
	}

	if len(groupBytes) == 0 {
		return nil, fmt.Errorf("channel group data for snapshot id %s does not exist", snapshotId)
	}

	group := []model.ChannelData{}

	err = json.Unmarshal([]byte(groupBytes), &group)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel group: %v ", err)
	}

	return group, nil
}

func (s *RedisStore) DeleteChannelGroup(ctx context.Context, snapshotId string) ([]model.ChannelData, error) {
	group, err := s.GetChannelGroup(ctx, snapshotId)
	if err != nil {
		return nil, err
	}

	err = s.ChannelDB.Del(ctx, snapshotId+"-ChannelGroup").Err()
	return group, err
}

func (s *RedisStore) AddRunSummary(ctx context.Context, runId string, summary interface{}) error {

	summaryBytes, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %v ", err)
	}

	return s.ChannelDB.Set(ctx, runId+"-RunSummary", summaryBytes, time.Duration(0)).Err()
}

func (s *RedisStore) GetRunSummary(ctx context.Context, runId string, summary interface{}) error {
	summaryBytes, err := s.ChannelDB.Get(ctx, runId+"-RunSummary").Result()
	if err != nil {
		return fmt.Errorf("error fetching run summary for run id %s: %v", runId, err)
	}

	if err := json.Unmarshal([]byte(summaryBytes), summary); err != nil {
		return fmt.Errorf("failed to unmarshal run summary: %v ", err)
	}
	return nil
}

// MockedRedisStore in memory Store for tests and runs without redis
type MockedRedisStore struct {
	mu        sync.RWMutex
	groups    map[string][]byte
	summaries map[string][]byte
}

func (s *MockedRedisStore) AddChannelGroup(ctx context.Context, snapshotId string, group []model.ChannelData) error {
	groupBytes, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal channel group: %v ", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groups == nil {
		s.groups = map[string][]byte{}
	}
	s.groups[snapshotId] = groupBytes
	return nil
}

func (s *MockedRedisStore) GetChannelGroup(ctx context.Context, snapshotId string) ([]model.ChannelData, error) {
	s.mu.RLock()
	groupBytes, ok := s.groups[snapshotId]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("channel group data for snapshot id %s does not exist", snapshotId)
	}
	group := []model.ChannelData{}
	if err := json.Unmarshal(groupBytes, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel group: %v ", err)
	}
	return group, nil
}

func (s *MockedRedisStore) DeleteChannelGroup(ctx context.Context, snapshotId string) ([]model.ChannelData, error) {
	group, err := s.GetChannelGroup(ctx, snapshotId)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	delete(s.groups, snapshotId)
	s.mu.Unlock()
	return group, nil
}

func (s *MockedRedisStore) AddRunSummary(ctx context.Context, runId string, summary interface{}) error {
	summaryBytes, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %v ", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summaries == nil {
		s.summaries = map[string][]byte{}
	}
	s.summaries[runId] = summaryBytes
	return nil
}

func (s *MockedRedisStore) GetRunSummary(ctx context.Context, runId string, summary interface{}) error {
	s.mu.RLock()
	summaryBytes, ok := s.summaries[runId]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("run summary for run id %s does not exist", runId)
	}
	if err := json.Unmarshal(summaryBytes, summary); err != nil {
		return fmt.Errorf("failed to unmarshal run summary: %v ", err)
	}
	return nil
}
