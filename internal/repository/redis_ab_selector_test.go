package repository

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSet struct {
	members map[string]bool
	err     error
	calls   int
}

func (f *fakeSet) SIsMember(_ context.Context, _ string, member interface{}) *goredis.BoolCmd {
	f.calls++
	return goredis.NewBoolResult(f.members[member.(string)], f.err)
}

func (f *fakeSet) SMIsMember(_ context.Context, _ string, members ...interface{}) *goredis.BoolSliceCmd {
	f.calls++
	flags := make([]bool, len(members))
	for i, m := range members {
		flags[i] = f.members[m.(string)]
	}
	return goredis.NewBoolSliceResult(flags, f.err)
}

func TestRedisABSelector_IsTreatment(t *testing.T) {
	set := &fakeSet{members: map[string]bool{"7": true}}
	selector := NewRedisABSelector(set, "ab:price-settings:treatment")
	ctx := context.Background()

	got, err := selector.IsTreatment(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = selector.IsTreatment(ctx, 8)
	require.NoError(t, err)
	assert.False(t, got)

	// answers are memoised
	_, _ = selector.IsTreatment(ctx, 7)
	assert.Equal(t, 2, set.calls)
}

func TestRedisABSelector_IsTreatment_Error(t *testing.T) {
	selector := NewRedisABSelector(&fakeSet{err: errors.New("connection refused")}, "k")

	_, err := selector.IsTreatment(context.Background(), 7)
	assert.ErrorContains(t, err, "venue 7")
}

func TestRedisABSelector_Warm(t *testing.T) {
	set := &fakeSet{members: map[string]bool{"7": true, "9": true}}
	selector := NewRedisABSelector(set, "k")
	ctx := context.Background()

	require.NoError(t, selector.Warm(ctx, []int64{7, 8, 9}))
	require.NoError(t, selector.Warm(ctx, []int64{7, 8}))
	assert.Equal(t, 1, set.calls)

	for id, want := range map[int64]bool{7: true, 8: false, 9: true} {
		got, err := selector.IsTreatment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "venue %d", id)
	}
	assert.Equal(t, 1, set.calls)
}
