package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// SetMembership is the subset of the Redis client the selector needs
type SetMembership interface {
	SIsMember(ctx context.Context, key string, member interface{}) *goredis.BoolCmd
	SMIsMember(ctx context.Context, key string, members ...interface{}) *goredis.BoolSliceCmd
}

// RedisABSelector reads the precomputed treatment assignment from a Redis set.
// Answers are memoised so a venue keeps its assignment for the whole run.
type RedisABSelector struct {
	client SetMembership
	key    string

	mu       sync.Mutex
	assigned map[int64]bool
}

// NewRedisABSelector creates a selector over the set stored at key
func NewRedisABSelector(client SetMembership, key string) *RedisABSelector {
	return &RedisABSelector{
		client:   client,
		key:      key,
		assigned: make(map[int64]bool),
	}
}

// IsTreatment reports whether venueID is a member of the treatment set
func (s *RedisABSelector) IsTreatment(ctx context.Context, venueID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.assigned[venueID]; ok {
		return v, nil
	}

	member, err := s.client.SIsMember(ctx, s.key, strconv.FormatInt(venueID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("read assignment of venue %d: %w", venueID, err)
	}
	s.assigned[venueID] = member
	return member, nil
}

// Warm loads the assignment of many venues in one round trip
func (s *RedisABSelector) Warm(ctx context.Context, venueIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []int64
	for _, id := range venueIDs {
		if _, ok := s.assigned[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	members := make([]interface{}, len(missing))
	for i, id := range missing {
		members[i] = strconv.FormatInt(id, 10)
	}

	flags, err := s.client.SMIsMember(ctx, s.key, members...).Result()
	if err != nil {
		return fmt.Errorf("read assignments: %w", err)
	}
	for i, id := range missing {
		s.assigned[id] = flags[i]
	}
	return nil
}
