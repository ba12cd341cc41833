package contentfs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

const module7 = `id: 7
title: Modül 7 - This / That
intro: |-
  This is my book.
  That is your pen.
table:
  title: 👉 This / That
  data:
    - category: Yakın
      word: this
      example: This is my book.
    - category: Uzak
      word: that
      turkish: şu / o
speakingPractice:
  - question: What is this?
    answer: This is a pen.
    multipleChoice:
      prompt: ___ is my book. (yakın)
      options:
        - letter: A
          text: This
          correct: true
        - letter: B
          text: That
          correct: false
`

func testLoader(fsys fstest.MapFS, dir string) *Loader {
	return NewLoader(slog.Default(), fsys, dir)
}

func TestLoader_LoadModules(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"modules/module_07.yaml": {Data: []byte(module7)},
		"modules/module_02.yaml": {Data: []byte("id: 2\ntitle: Two\nintro: x\nspeakingPractice:\n  - question: q\n    answer: a\n")},
		"modules/README.md":      {Data: []byte("not a module")},
	}

	mods, err := testLoader(fsys, "modules").LoadModules(context.Background())
	require.NoError(t, err)
	require.Len(t, mods, 2)

	assert.Equal(t, 2, mods[0].ID)
	assert.Equal(t, 7, mods[1].ID)

	m := mods[1]
	assert.Equal(t, "This is my book.\nThat is your pen.", m.Intro)
	require.Len(t, m.Table.Data, 2)
	assert.Equal(t, []string{"category", "word", "example"}, m.Table.Data[0].Keys())
	assert.Equal(t, "şu / o", m.Table.Data[1].Turkish())
	assert.False(t, m.Table.Data[1].Has("example"))

	mc := m.SpeakingPractice[0].MultipleChoice
	require.NotNil(t, mc)
	assert.Equal(t, []string{"A", "B"}, mc.Letters())
	assert.Len(t, mc.CorrectOptions(), 1)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "no files",
			fsys: fstest.MapFS{"modules/other.txt": {Data: []byte("x")}},
			want: "no module_*.yaml files",
		},
		{
			name: "unknown field",
			fsys: fstest.MapFS{"modules/module_01.yaml": {Data: []byte("id: 1\ntitel: typo\n")}},
			want: "module_01.yaml: decode",
		},
		{
			name: "non-string row value",
			fsys: fstest.MapFS{"modules/module_01.yaml": {Data: []byte("id: 1\ntable:\n  data:\n    - a: [1, 2]\n")}},
			want: "expected string",
		},
		{
			name: "empty file",
			fsys: fstest.MapFS{"modules/module_01.yaml": {Data: []byte("")}},
			want: "empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := testLoader(tt.fsys, "modules").LoadModules(context.Background())
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q does not contain %q", err, tt.want)
		})
	}
}

func TestLoader_FileNameMismatch(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"module_03.yaml": {Data: []byte("id: 4\ntitle: Four\n")}}

	_, err := testLoader(fsys, "").LoadModules(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestLoader_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := fstest.MapFS{"module_07.yaml": {Data: []byte(module7)}}
	_, err := testLoader(fsys, ".").LoadModules(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	orig, err := Decode(strings.NewReader(module7))
	require.NoError(t, err)

	out, err := Marshal(&orig)
	require.NoError(t, err)
	assert.Contains(t, string(out), "intro: |-\n")

	back, err := Decode(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}

func TestFileNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "module_03.yaml", FileName(3))
	assert.Equal(t, "module_121.yaml", FileName(121))

	id, ok := FileID("module_21.yaml")
	assert.True(t, ok)
	assert.Equal(t, 21, id)

	_, ok = FileID("module_x.yaml")
	assert.False(t, ok)
}
