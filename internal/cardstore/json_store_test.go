package cardstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/cardapp/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStore_SaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		cards []card.Card
	}{
		{
			name:  "no cards",
			cards: []card.Card{},
		},
		{
			name:  "single card",
			cards: []card.Card{{Front: "2+2", Back: "4"}},
		},
		{
			name: "many cards keep their order",
			cards: []card.Card{
				{Front: "3+3", Back: "6"},
				{Front: "2+2", Back: "4"},
				{Front: "1+1", Back: "2"},
			},
		},
		{
			name: "newlines, non-ASCII text and HTML characters",
			cards: []card.Card{
				{Front: "Столица\nФранции?", Back: "Париж"},
				{Front: "<b>&</b>", Back: "日本語\n\tテキスト"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewJSONFileStore(filepath.Join(t.TempDir(), "cards.json"))

			require.NoError(t, store.Save(tt.cards))
			got, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.cards, got)
		})
	}
}

func TestJSONFileStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	store := NewJSONFileStore(path)

	require.NoError(t, store.Save([]card.Card{{Front: "Привет", Back: "a<b"}}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"front\": \"Привет\",\n    \"back\": \"a<b\"\n  }\n]\n", string(contents))
}

func TestJSONFileStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		contents  *string
		want      []card.Card
		wantError bool
	}{
		{
			name: "missing file",
			want: []card.Card{},
		},
		{
			name:     "empty file",
			contents: ptr(""),
			want:     []card.Card{},
		},
		{
			name:     "null document",
			contents: ptr("null"),
			want:     []card.Card{},
		},
		{
			name:      "corrupt file",
			contents:  ptr(`[{"front": "2+2",`),
			want:      []card.Card{},
			wantError: true,
		},
		{
			name:     "hand-edited values that are not strings",
			contents: ptr(`[{"front": 1, "back": ["a", "b"]}, {"front": "q", "back": null}]`),
			want: []card.Card{
				{Front: "1", Back: `["a","b"]`},
				{Front: "q", Back: ""},
			},
		},
		{
			name:      "array of strings",
			contents:  ptr(`["2+2", "4"]`),
			want:      []card.Card{},
			wantError: true,
		},
		{
			name:      "object instead of array",
			contents:  ptr(`{"front": "2+2", "back": "4"}`),
			want:      []card.Card{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cards.json")
			if tt.contents != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.contents), 0600))
			}

			got, err := NewJSONFileStore(path).Load()
			if tt.wantError {
				var readErr *ReadError
				require.ErrorAs(t, err, &readErr)
				assert.Equal(t, path, readErr.Path)
			} else {
				require.NoError(t, err)
			}
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONFileStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cards.json")
	store := NewJSONFileStore(path)

	require.NoError(t, store.Save([]card.Card{{Front: "q", Back: "a"}}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestJSONFileStore_SaveFailure(t *testing.T) {
	t.Run("parent is a regular file", func(t *testing.T) {
		dir := t.TempDir()
		parent := filepath.Join(dir, "not-a-dir")
		require.NoError(t, os.WriteFile(parent, []byte("x"), 0600))

		err := NewJSONFileStore(filepath.Join(parent, "cards.json")).Save([]card.Card{{Front: "q", Back: "a"}})

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
	})

	t.Run("destination cannot be replaced keeps old contents and no temp file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cards.json")
		// A non-empty directory at the destination makes the final rename fail.
		require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0700))

		err := NewJSONFileStore(path).Save([]card.Card{{Front: "q", Back: "a"}})

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		info, statErr := os.Stat(filepath.Join(path, "keep"))
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())

		matches, globErr := filepath.Glob(filepath.Join(dir, "cards.json.*.tmp"))
		require.NoError(t, globErr)
		assert.Empty(t, matches)
	})
}

func TestJSONFileStore_Mutations(t *testing.T) {
	initial := []card.Card{
		{Front: "a", Back: "1"},
		{Front: "b", Back: "2"},
		{Front: "c", Back: "3"},
	}

	tests := []struct {
		name      string
		mutate    func(s *JSONFileStore) error
		want      []card.Card
		wantIndex bool
	}{
		{
			name:   "append",
			mutate: func(s *JSONFileStore) error { return s.Append(card.Card{Front: "d", Back: "4"}) },
			want:   append(append([]card.Card{}, initial...), card.Card{Front: "d", Back: "4"}),
		},
		{
			name:   "replace at",
			mutate: func(s *JSONFileStore) error { return s.ReplaceAt(1, card.Card{Front: "B", Back: "two"}) },
			want: []card.Card{
				{Front: "a", Back: "1"},
				{Front: "B", Back: "two"},
				{Front: "c", Back: "3"},
			},
		},
		{
			name:   "delete at",
			mutate: func(s *JSONFileStore) error { return s.DeleteAt(0) },
			want: []card.Card{
				{Front: "b", Back: "2"},
				{Front: "c", Back: "3"},
			},
		},
		{
			name:   "replace all",
			mutate: func(s *JSONFileStore) error { return s.ReplaceAll([]card.Card{{Front: "x", Back: "y"}}) },
			want:   []card.Card{{Front: "x", Back: "y"}},
		},
		{
			name:      "replace out of range",
			mutate:    func(s *JSONFileStore) error { return s.ReplaceAt(3, card.Card{Front: "x", Back: "y"}) },
			want:      initial,
			wantIndex: true,
		},
		{
			name:      "delete negative index",
			mutate:    func(s *JSONFileStore) error { return s.DeleteAt(-1) },
			want:      initial,
			wantIndex: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewJSONFileStore(filepath.Join(t.TempDir(), "cards.json"))
			require.NoError(t, store.Save(initial))

			err := tt.mutate(store)
			if tt.wantIndex {
				var indexErr *IndexError
				require.ErrorAs(t, err, &indexErr)
			} else {
				require.NoError(t, err)
			}

			got, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONFileStore_MutationsKeepUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	corrupt := []byte(`[{"front": `)
	require.NoError(t, os.WriteFile(path, corrupt, 0600))
	store := NewJSONFileStore(path)

	err := store.Append(card.Card{Front: "q", Back: "a"})

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, contents)

	require.NoError(t, store.ReplaceAll([]card.Card{{Front: "q", Back: "a"}}))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []card.Card{{Front: "q", Back: "a"}}, got)
}

func TestJSONFileStore_Status(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	store := NewJSONFileStore(path)

	status, err := store.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{Path: path}, status)

	require.NoError(t, store.Save([]card.Card{{Front: "a", Back: "1"}, {Front: "b", Back: "2"}}))
	info, err := os.Stat(path)
	require.NoError(t, err)

	status, err = store.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{
		Path:      path,
		Exists:    true,
		SizeBytes: info.Size(),
		CardCount: 2,
	}, status)
}

func ptr[T any](v T) *T {
	return &v
}
