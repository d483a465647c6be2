package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertThenGet(t *testing.T) {
	store := NewStore()

	want := store.Upsert("s1", "generate_analysis", "Running psychometric analysis…", 10, "Sheet1")

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, 10, got.Progress)
}

func TestGetUnknownSession(t *testing.T) {
	store := NewStore()
	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestUpsertOverwritesInPlace(t *testing.T) {
	store := NewStore()

	first := store.Upsert("s1", "start", "Starting analysis…", 0, "Sheet1")
	second := store.Upsert("s1", "judge_analysis", "Evaluating analysis quality…", 50, "Sheet1")

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Greater(t, second.Timestamp, first.Timestamp)
}

func TestPoll(t *testing.T) {
	store := NewStore()

	record := store.Upsert("s1", "start", "Starting analysis…", 0, "Sheet1")

	// Newer than zero: delivered.
	got, ok := store.Poll("s1", 0)
	require.True(t, ok)
	assert.Equal(t, record, got)

	// Not newer than what the caller already saw: not delivered.
	_, ok = store.Poll("s1", got.Timestamp)
	assert.False(t, ok)

	// Advances again after the next write.
	next := store.Upsert("s1", "generate_analysis", "Running psychometric analysis…", 10, "Sheet1")
	got, ok = store.Poll("s1", record.Timestamp)
	require.True(t, ok)
	assert.Equal(t, next, got)
}

func TestPollUnknownSession(t *testing.T) {
	store := NewStore()
	_, ok := store.Poll("nope", 0)
	assert.False(t, ok)
}

func TestWatchDeliversCurrentAndSubsequent(t *testing.T) {
	store := NewStore()
	store.Upsert("s1", "start", "Starting analysis…", 0, "Sheet1")

	ch, cancel := store.Watch("s1")
	defer cancel()

	got := <-ch
	assert.Equal(t, 0, got.Progress)

	store.Upsert("s1", "generate_analysis", "Running psychometric analysis…", 10, "Sheet1")
	got = <-ch
	assert.Equal(t, 10, got.Progress)
}

func TestWatchClosesAtComplete(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Watch("s1")
	defer cancel()

	store.Upsert("s1", "complete", "Analysis complete!", 100, "Sheet1")

	got, open := <-ch
	require.True(t, open)
	assert.Equal(t, 100, got.Progress)

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after completion")
	}
}

func TestWatchOnFinishedSession(t *testing.T) {
	store := NewStore()
	store.Upsert("s1", "complete", "Analysis complete!", 100, "Sheet1")

	ch, cancel := store.Watch("s1")
	defer cancel()

	got, open := <-ch
	require.True(t, open)
	assert.Equal(t, 100, got.Progress)

	_, open = <-ch
	assert.False(t, open)
}

func TestCancelIsIdempotent(t *testing.T) {
	store := NewStore()
	_, cancel := store.Watch("s1")
	cancel()
	cancel()

	// Upsert after cancellation must not panic on a closed channel.
	store.Upsert("s1", "start", "Starting analysis…", 0, "Sheet1")
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	// One writer per session, many readers across sessions.
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("s%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for p := 0; p <= 100; p += 5 {
				store.Upsert(id, "generate_analysis", "working", p, "sheet")
			}
		}()
		go func() {
			defer wg.Done()
			var last int64
			for j := 0; j < 200; j++ {
				if record, ok := store.Poll(id, last); ok {
					// Timestamps only move forward.
					assert.Greater(t, record.Timestamp, last)
					last = record.Timestamp
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		record, ok := store.Get(fmt.Sprintf("s%d", i))
		require.True(t, ok)
		assert.Equal(t, 100, record.Progress)
	}
}
