package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"restockwatch/pkg/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsSHA1Hex(t *testing.T) {
	// sha1("abc")
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", Key("abc"))
	assert.Len(t, Key("https://shop.example/p/1"), KeyLength)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.txt"), false)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	store := NewFileStore(path, true)

	in := NewSnapshot()
	in.Set(Key("https://a.example/1"), Record{Signal: stock.InStock, Notified: true})
	in.Set(Key("https://b.example/2"), Record{Signal: stock.OutOfStock})
	in.Set(Key("https://c.example/3"), Record{Signal: stock.Unknown})
	in.Set(Key("https://d.example/4"), Record{Signal: stock.Unknown, Notified: true})

	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in.Keys(), out.Keys())
	in.Each(func(key string, r Record) {
		got, ok := out.Get(key)
		require.True(t, ok)
		assert.Equal(t, r, got)
	})

	// saving what was loaded reproduces the file byte for byte
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(out))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	store := NewFileStore(path, false)

	snap := NewSnapshot()
	snap.Set(Key("A"), Record{Signal: stock.InStock, Notified: true})
	snap.Set(Key("B"), Record{Signal: stock.OutOfStock})
	snap.Set(Key("C"), Record{Signal: stock.Unknown, Notified: true})
	require.NoError(t, store.Save(snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		Key("A")+"\t1\n"+Key("B")+"\t0\n"+Key("C")+"\t?\tn\n",
		string(data))
}

func TestSaveOverwritesPreviousRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	store := NewFileStore(path, false)

	old := NewSnapshot()
	old.Set(Key("gone"), Record{Signal: stock.InStock})
	require.NoError(t, store.Save(old))

	next := NewSnapshot()
	next.Set(Key("kept"), Record{Signal: stock.OutOfStock})
	require.NoError(t, store.Save(next))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{Key("kept")}, loaded.Keys())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoadLenientSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	good := Key("https://ok.example")
	content := strings.Join([]string{
		good + "\t1",
		"not-a-key\t1",
		Key("x") + "\tmaybe",
		Key("y"),
		"",
		Key("z") + "\t0\tn",
		"  " + Key("w") + "\t0  ",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	snap, err := NewFileStore(path, false).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{good, Key("w")}, snap.Keys())

	r, _ := snap.Get(good)
	assert.Equal(t, stock.InStock, r.Signal)
}

func TestLoadStrictFailsOnMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	require.NoError(t, os.WriteFile(path, []byte(Key("a")+"\t1\nbroken line\n"), 0644))

	_, err := NewFileStore(path, true).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedLine)
	assert.Contains(t, err.Error(), ":2:")
}

func TestLoadOversizedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	first, second := Key("https://one.example"), Key("https://two.example")
	content := first + "\t1\n" + strings.Repeat("x", 70000) + "\n" + second + "\t0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	snap, err := NewFileStore(path, false).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, snap.Keys())

	_, err = NewFileStore(path, true).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedLine)
	assert.Contains(t, err.Error(), ":2:")
}

func TestLoadLastLineWithoutNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	key := Key("https://tail.example")
	require.NoError(t, os.WriteFile(path, []byte(key+"\t?\tn"), 0644))

	snap, err := NewFileStore(path, true).Load()
	require.NoError(t, err)
	r, ok := snap.Get(key)
	require.True(t, ok)
	assert.Equal(t, Record{Signal: stock.Unknown, Notified: true}, r)
}

func TestLoadAcceptsUppercaseKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.txt")
	key := Key("https://upper.example")
	require.NoError(t, os.WriteFile(path, []byte(strings.ToUpper(key)+"\t0\n"), 0644))

	snap, err := NewFileStore(path, true).Load()
	require.NoError(t, err)
	_, ok := snap.Get(key)
	assert.True(t, ok)
}

func TestSnapshotSetKeepsInsertionOrder(t *testing.T) {
	s := NewSnapshot()
	s.Set("b", Record{Signal: stock.InStock})
	s.Set("a", Record{Signal: stock.OutOfStock})
	s.Set("b", Record{Signal: stock.Unknown})

	assert.Equal(t, []string{"b", "a"}, s.Keys())
	r, _ := s.Get("b")
	assert.Equal(t, stock.Unknown, r.Signal)
}
