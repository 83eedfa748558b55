package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	a := NewRecord("Redis", "abc")
	b := NewRecord("Redis", "abc")
	if a.ID == b.ID {
		t.Error("NewRecord should generate distinct IDs")
	}
	if !validID(a.ID) {
		t.Errorf("ID %q is not a UUID", a.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

// testStore runs the behaviour shared by every backend.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i, title := range []string{"first", "second", "third"} {
		rec := NewRecord(title, "hash-"+title)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		rec.Formats = []string{"svg"}
		rec.Nodes, rec.Width, rec.Height = i+1, 320, 100
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error: %v", title, err)
		}
		ids = append(ids, rec.ID)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Title != "second" || got.Nodes != 2 || got.Width != 320 {
		t.Errorf("Get = %+v", got)
	}

	if _, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d records, want 2", len(list))
	}
	if list[0].Title != "third" || list[1].Title != "second" {
		t.Errorf("List order = %s, %s; want newest first", list[0].Title, list[1].Title)
	}

	got.Title = "renamed"
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("Save (replace) error: %v", err)
	}
	again, _ := s.Get(ctx, got.ID)
	if again.Title != "renamed" {
		t.Errorf("Save did not replace record: %q", again.Title)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := NewRecord("t", "h")
	rec.Formats = []string{"svg"}
	_ = s.Save(ctx, rec)

	rec.Formats[0] = "png"
	rec.Title = "changed"
	got, _ := s.Get(ctx, rec.ID)
	if got.Title != "t" || got.Formats[0] != "svg" {
		t.Errorf("stored record aliased caller's value: %+v", got)
	}
}

func TestMemoryStoreDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < DefaultListLimit+5; i++ {
		_ = s.Save(ctx, NewRecord("r", "h"))
	}
	list, _ := s.List(ctx, 0)
	if len(list) != DefaultListLimit {
		t.Errorf("List(0) returned %d, want %d", len(list), DefaultListLimit)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ARCHVIZ_MONGO_URI")
	if uri == "" {
		t.Skip("ARCHVIZ_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := "renders_test_" + time.Now().Format("150405")
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Collection: coll})
	if err != nil {
		t.Fatalf("NewMongoStore error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	})
	testStore(t, s)

	if _, err := s.Get(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(malformed) error = %v, want ErrNotFound", err)
	}
}

func TestMongoStoreEmptyURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Error("NewMongoStore with empty URI should fail")
	}
}
