package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobScheduleOrdersByTime(t *testing.T) {
	s := NewJobSchedule()
	require.Nil(t, s.Schedule(10, TaskID(1)))
	require.Nil(t, s.Schedule(5, TaskID(2)))
	require.Nil(t, s.Schedule(5, TaskID(3)))

	next, ok := s.PeekNextTime()
	require.True(t, ok)
	assert.Equal(t, int64(5), next)

	batch := s.GetNextBatch()
	assert.ElementsMatch(t, []TaskID{2, 3}, batch)

	next, ok = s.PeekNextTime()
	require.True(t, ok)
	assert.Equal(t, int64(10), next)
}

func TestJobScheduleRejectsDoubleScheduling(t *testing.T) {
	s := NewJobSchedule()
	require.Nil(t, s.Schedule(1, TaskID(1)))
	err := s.Schedule(2, TaskID(1))
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestJobScheduleIsEmpty(t *testing.T) {
	s := NewJobSchedule()
	assert.True(t, s.IsEmpty())
	require.Nil(t, s.Schedule(0, TaskID(1)))
	assert.False(t, s.IsEmpty())
	s.GetNextBatch()
	assert.True(t, s.IsEmpty())
}

func TestJobScheduleAllowsReschedulingAfterDelivery(t *testing.T) {
	s := NewJobSchedule()
	require.Nil(t, s.Schedule(0, TaskID(1)))
	s.GetNextBatch()
	assert.Nil(t, s.Schedule(5, TaskID(1)))
}
