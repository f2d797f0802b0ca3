package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnical/internal/calendar"
	"turnical/internal/model"
)

func testEntry() *Entry {
	g := model.NewGrid(30)
	g.Set("Rossi Mario", 1, model.Shift{Kind: model.ShiftSpecial, Tag: "FER"})
	return &Entry{
		Period: model.Period{Month: time.April, Year: 2024, Days: 30},
		Grid:   g,
		Artifacts: map[string]*calendar.Artifact{
			"Rossi Mario": {
				Person:   "Rossi Mario",
				Filename: "Rossi_Mario.ics",
				Body:     []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
			},
		},
	}
}

func TestStore(t *testing.T) {
	t.Run("put then get", func(t *testing.T) {
		s := New(time.Hour, "")
		id := s.Put(testEntry())
		require.NotEmpty(t, id)

		e, ok := s.Get(id)
		require.True(t, ok)
		assert.Equal(t, 2024, e.Period.Year)

		_, ok = s.Get("missing")
		assert.False(t, ok)
	})

	t.Run("distinct ids per upload", func(t *testing.T) {
		s := New(time.Hour, "")
		assert.NotEqual(t, s.Put(testEntry()), s.Put(testEntry()))
	})

	t.Run("expired entries read as missing before the sweep", func(t *testing.T) {
		s := New(50*time.Millisecond, "")
		id := s.Put(testEntry())

		time.Sleep(80 * time.Millisecond)

		_, ok := s.Get(id)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("evict removes only expired entries", func(t *testing.T) {
		s := New(50*time.Millisecond, "")
		old := s.Put(testEntry())
		time.Sleep(80 * time.Millisecond)
		fresh := s.Put(testEntry())

		assert.Equal(t, 1, s.EvictExpired())
		assert.Equal(t, 1, s.Len())

		_, ok := s.Get(old)
		assert.False(t, ok)
		_, ok = s.Get(fresh)
		assert.True(t, ok)
	})

	t.Run("zero ttl disables expiry", func(t *testing.T) {
		s := New(0, "")
		id := s.Put(testEntry())
		assert.Equal(t, 0, s.EvictExpired())
		_, ok := s.Get(id)
		assert.True(t, ok)
	})
}

func TestStorePersistence(t *testing.T) {
	dir := t.TempDir()
	s := New(time.Hour, dir)

	id := s.Put(testEntry())

	sessionDir := filepath.Join(dir, id)
	body, err := os.ReadFile(filepath.Join(sessionDir, "Rossi_Mario.ics"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "VCALENDAR")

	metaRaw, err := os.ReadFile(filepath.Join(sessionDir, "meta.json"))
	require.NoError(t, err)
	var meta struct {
		Session string   `json:"session"`
		Period  string   `json:"period"`
		Files   []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(metaRaw, &meta))
	assert.Equal(t, id, meta.Session)
	assert.Equal(t, "April 2024", meta.Period)
	assert.Equal(t, []string{"Rossi_Mario.ics"}, meta.Files)

	// Eviction removes the on-disk copies too.
	sExp := New(time.Nanosecond, dir)
	id2 := sExp.Put(testEntry())
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, 1, sExp.EvictExpired())
	_, err = os.Stat(filepath.Join(dir, id2))
	assert.True(t, os.IsNotExist(err))
}
