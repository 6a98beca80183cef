package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jask/shoplist/internal/database"
	"github.com/jask/shoplist/internal/database/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) (*ItemStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "items.db")
	db, err := database.OpenAndMigrate(database.DriverCGO, dbPath)
	require.NoError(t, err)
	s := New(repository.NewItemRepo(db), nil)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
		_ = db.Close()
	})
	return s, dbPath
}

func recv(t *testing.T, ch <-chan []repository.Item) []repository.Item {
	t.Helper()
	select {
	case list, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return list
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for list")
		return nil
	}
}

func names(list []repository.Item) []string {
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.Name)
	}
	return out
}

func TestWatchDeliversInitialThenEveryChange(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	require.NoError(t, err)
	require.Empty(t, recv(t, ch))

	milk, err := s.Insert(ctx, "Milk")
	require.NoError(t, err)
	got := recv(t, ch)
	require.Equal(t, []repository.Item{milk}, got)

	eggs, err := s.Insert(ctx, "Eggs")
	require.NoError(t, err)
	require.Equal(t, []repository.Item{milk, eggs}, recv(t, ch))

	require.NoError(t, s.Delete(ctx, milk))
	require.Equal(t, []repository.Item{eggs}, recv(t, ch))
}

func TestDuplicateNamesGetDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.Insert(ctx, "Bread")
	require.NoError(t, err)
	b, err := s.Insert(ctx, "Bread")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Bread", "Bread"}, names(list))
}

func TestAddsAndRemovesLeaveDifference(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var added []repository.Item
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		it, err := s.Insert(ctx, n)
		require.NoError(t, err)
		added = append(added, it)
	}
	for _, it := range []repository.Item{added[1], added[3]} {
		require.NoError(t, s.Delete(ctx, it))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	if diff := cmp.Diff([]string{"a", "c", "e", "f"}, names(list)); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}
}

func TestDeleteMissingIsInert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	milk, err := s.Insert(ctx, "Milk")
	require.NoError(t, err)
	ch, err := s.Watch(ctx)
	require.NoError(t, err)
	require.Equal(t, []repository.Item{milk}, recv(t, ch))

	require.NoError(t, s.Delete(ctx, repository.Item{ID: milk.ID + 100, Name: "ghost"}))
	require.Equal(t, []repository.Item{milk}, recv(t, ch))

	require.NoError(t, s.Delete(ctx, milk))
	require.Empty(t, recv(t, ch))
	require.NoError(t, s.Delete(ctx, milk))
	require.Empty(t, recv(t, ch))
}

func TestSlowSubscriberSeesLatest(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	require.NoError(t, err)

	// writers never wait on a subscriber that is not reading
	for _, n := range []string{"a", "b", "c"} {
		_, err := s.Insert(ctx, n)
		require.NoError(t, err)
	}

	reads := 0
	for {
		list := recv(t, ch)
		reads++
		if len(list) == 3 {
			break
		}
	}
	require.LessOrEqual(t, reads, 2)
}

func TestCancelDetachesSubscriber(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Watch(ctx)
	require.NoError(t, err)
	require.Empty(t, recv(t, ch))
	require.Equal(t, 1, s.subscribers())

	cancel()
	for range ch {
	}
	require.Eventually(t, func() bool { return s.subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)

	// writes after the subscriber left still work
	_, err = s.Insert(context.Background(), "Milk")
	require.NoError(t, err)
}

func TestCloseEndsSubscriptionsAndRejectsWork(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	ch, err := s.Watch(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	for range ch {
	}
	_, err = s.Insert(ctx, "Milk")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Delete(ctx, repository.Item{ID: 1}), ErrClosed)
	_, err = s.Watch(ctx)
	require.ErrorIs(t, err, ErrClosed)
	require.NoError(t, s.Close())
}

func TestInsertFailureIsReported(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "items.db")
	db, err := database.OpenAndMigrate(database.DriverCGO, dbPath)
	require.NoError(t, err)
	s := New(repository.NewItemRepo(db), nil)
	defer s.Close()

	require.NoError(t, db.Close())
	_, err = s.Insert(context.Background(), "Milk")
	require.ErrorContains(t, err, "insert item")
}

func TestWatchFilePicksUpOtherWriters(t *testing.T) {
	s, dbPath := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.WatchFile(ctx, dbPath))
	ch, err := s.Watch(ctx)
	require.NoError(t, err)
	require.Empty(t, recv(t, ch))

	// a second handle stands in for another process
	other, err := sql.Open("sqlite3", "file:"+dbPath+"?_busy_timeout=5000")
	require.NoError(t, err)
	defer other.Close()
	_, err = other.ExecContext(ctx, `INSERT INTO items(name) VALUES ('Coffee')`)
	require.NoError(t, err)

	require.Equal(t, []string{"Coffee"}, names(recv(t, ch)))
}
