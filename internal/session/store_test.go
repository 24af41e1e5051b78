package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

func records() []models.TransactionRecord {
	return []models.TransactionRecord{
		{SerialNumber: "1", Balance: "100.00"},
		{SerialNumber: "2", Credit: "50.00", Balance: "150.00"},
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	st := NewStore()
	s := st.Create("april.pdf", records())
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "april.pdf", s.Source())
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(s.ID))
	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(s.ID), ErrNotFound)
}

func TestSession_LoadReplacesLedger(t *testing.T) {
	st := NewStore()
	s := st.Create("april.pdf", records())
	require.NoError(t, s.Do(func(l *ledger.Ledger) error { return l.BeginEdit(1) }))

	s.Load("may.pdf", records()[:1])

	assert.Equal(t, "may.pdf", s.Source())
	require.NoError(t, s.Do(func(l *ledger.Ledger) error {
		assert.Equal(t, 1, l.Len())
		_, editing := l.Editing()
		assert.False(t, editing)
		return nil
	}))
}

func TestSession_DoPropagatesError(t *testing.T) {
	s := NewStore().Create("", nil)
	err := s.Do(func(l *ledger.Ledger) error { return l.RecalculateAll() })
	assert.ErrorIs(t, err, ledger.ErrEmptyLedger)
}

func TestSession_DoSerialisesCallers(t *testing.T) {
	s := NewStore().Create("", records())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func(l *ledger.Ledger) error {
				if err := l.BeginEdit(1); err != nil {
					return err
				}
				return l.CommitEdit()
			})
		}()
	}
	wg.Wait()

	require.NoError(t, s.Do(func(l *ledger.Ledger) error {
		_, editing := l.Editing()
		assert.False(t, editing)
		assert.Equal(t, 2, l.Len())
		return nil
	}))
}

func TestStore_Sweep(t *testing.T) {
	st := NewStore()
	old := st.Create("old.pdf", nil)
	fresh := st.Create("fresh.pdf", nil)

	old.mu.Lock()
	old.lastUsed = time.Now().Add(-time.Hour)
	old.mu.Unlock()

	assert.Equal(t, 1, st.Sweep(30*time.Minute))
	_, err := st.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(fresh.ID)
	assert.NoError(t, err)
}
