package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierSupersedes(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	first := n.Raise("Employee added successfully!", KindSuccess)
	second := n.Raise("Failed to delete employee", KindError)
	assert.NotEqual(t, first, second)

	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, second, got.ID)
	assert.Equal(t, "Failed to delete employee", got.Message)
	assert.Equal(t, KindError, got.Kind)
}

func TestNotifierExpires(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	defer n.Close()

	n.Raise("Attendance marked successfully!", KindSuccess)
	_, ok := n.Current()
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotifierOldTimerDoesNotClearNewer(t *testing.T) {
	n := NewNotifier(200 * time.Millisecond)
	defer n.Close()

	n.Raise("first", KindSuccess)
	time.Sleep(120 * time.Millisecond)
	n.Raise("second", KindError)
	// past the first raise's deadline, before the second's
	time.Sleep(120 * time.Millisecond)

	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", got.Message)
}

func TestNotifierExpireIgnoresStaleID(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	old := n.Raise("first", KindSuccess)
	n.Raise("second", KindSuccess)
	n.expire(old)

	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", got.Message)
}

func TestNotifierDismissAndClose(t *testing.T) {
	n := NewNotifier(time.Minute)
	n.Raise("hello", KindSuccess)
	n.Dismiss()
	_, ok := n.Current()
	assert.False(t, ok)

	n.Close()
	assert.Zero(t, n.Raise("late", KindError))
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestNotifierDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultNotifyTTL, NewNotifier(0).ttl)
}
