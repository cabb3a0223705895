package editsession

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSeedsDraftWithoutAliasing(t *testing.T) {
	original := Record{"name": "Asha", "city": "Pune"}

	s := New()
	require.NoError(t, s.Open(original))
	require.NoError(t, s.UpdateField("name", "X"))

	v, ok := s.Field("name")
	assert.True(t, ok)
	assert.Equal(t, "X", v)

	// The source record is untouched.
	assert.Equal(t, "Asha", original["name"])
}

func TestOpenNilGivesEmptyTemplate(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(nil))
	assert.Equal(t, StateEditing, s.State())
	assert.Empty(t, s.Draft())
}

func TestUpdateFieldRequiresEditing(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.UpdateField("name", "X"), ErrNotEditing)
}

func TestOpenTwiceFails(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(nil))
	assert.ErrorIs(t, s.Open(nil), ErrAlreadyOpen)
}

func TestSubmitSuccessClosesSession(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(Record{"name": "Asha"}))
	require.NoError(t, s.UpdateField("city", "Pune"))

	stored, err := s.Submit(context.Background(), func(_ context.Context, draft Record) (Record, error) {
		out := draft.Clone()
		out["id"] = "42"
		return out, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "42", stored["id"])
	assert.Equal(t, StateClosed, s.State())
	assert.Nil(t, s.LastError())
}

func TestSubmitFailureReturnsToEditing(t *testing.T) {
	boom := errors.New("server rejected")
	s := New()
	require.NoError(t, s.Open(Record{"name": "Asha"}))

	_, err := s.Submit(context.Background(), func(context.Context, Record) (Record, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateEditing, s.State())
	assert.ErrorIs(t, s.LastError(), boom)

	// Draft survives the failure for a retry.
	v, _ := s.Field("name")
	assert.Equal(t, "Asha", v)
}

func TestSubmitWhileSubmittingRejected(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(Record{"name": "Asha"}))

	release := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Submit(context.Background(), func(context.Context, Record) (Record, error) {
			close(started)
			<-release
			return Record{}, nil
		})
	}()

	<-started
	_, err := s.Submit(context.Background(), func(context.Context, Record) (Record, error) {
		return Record{}, nil
	})
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	close(release)
	wg.Wait()
}

func TestSubmitClosedSessionRejected(t *testing.T) {
	s := New()
	_, err := s.Submit(context.Background(), func(context.Context, Record) (Record, error) {
		return Record{}, nil
	})
	assert.ErrorIs(t, err, ErrNothingToSubmit)
}

func TestCancelDiscardsDraft(t *testing.T) {
	s := New()
	require.NoError(t, s.Open(Record{"name": "Asha"}))
	s.Cancel()
	assert.Equal(t, StateClosed, s.State())
	assert.Empty(t, s.Draft())
}
