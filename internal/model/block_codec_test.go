package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProps(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		props   any
		want    string
		wantErr bool
	}{
		{"typed page", KindPage, PageProps{Title: "Home"}, `{"title":"Home"}`, false},
		{"map text", KindText, map[string]string{"text": "hi"}, `{"text":"hi"}`, false},
		{"raw string", KindText, `{"text":"raw"}`, `{"text":"raw"}`, false},
		{"missing title", KindPage, `{"name":"x"}`, "", true},
		{"not an object", KindText, `"hi"`, "", true},
		{"trailing data", KindText, `{"text":"a"} {}`, "", true},
		{"nil props", KindPage, nil, "", true},
		{"dummy kind", KindDummy, `{}`, "", true},
		{"unknown kind", Kind("table"), `{}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeProps(tt.kind, tt.props)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestChildrenColumn(t *testing.T) {
	a, b := MustParseID("01900000-0000-7000-8000-00000000000a"), MustParseID("01900000-0000-7000-8000-00000000000b")
	s := EncodeChildren([]ID{a, b})
	assert.Equal(t, a.String()+","+b.String(), s)

	ids, err := DecodeChildren(" ," + s + ",")
	require.NoError(t, err)
	assert.Equal(t, []ID{a, b}, ids)

	ids, err = DecodeChildren("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = DecodeChildren("nope")
	assert.Error(t, err)
}

func TestRecordToBlock(t *testing.T) {
	id := MustParseID("01900000-0000-7000-8000-000000000001")
	start := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)

	b, err := BlockRecord{ID: id, Kind: "Page", Props: `{"title":"T"}`, Start: &start, Done: true}.ToBlock()
	require.NoError(t, err)
	page, ok := b.(*PageBlock)
	require.True(t, ok)
	assert.Equal(t, "T", page.Props.Title)
	assert.Equal(t, &start, page.Schedule.Start)
	assert.True(t, page.Schedule.Done)

	b, err = BlockRecord{ID: id, Kind: "kanban", Props: "garbage"}.ToBlock()
	require.NoError(t, err)
	assert.IsType(t, &DummyBlock{}, b)

	_, err = BlockRecord{ID: id, Kind: "text", Props: `{"title":"wrong"}`}.ToBlock()
	assert.ErrorIs(t, err, ErrMalformedProperties)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindPage, ParseKind("PAGE"))
	assert.Equal(t, KindText, ParseKind("text"))
	assert.Equal(t, KindDummy, ParseKind(""))
	assert.True(t, KindText.Storable())
	assert.False(t, KindDummy.Storable())
}

func TestErrorMatching(t *testing.T) {
	err := fmt.Errorf("page get: %w", NewError(NotFound, "subtree", "abc", errors.New("no rows")))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRootMissing)
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, UnknownError, KindOf(errors.New("plain")))
	assert.Equal(t, "page get: subtree: not found (block abc): no rows", err.Error())
}

func TestDigest(t *testing.T) {
	tree := func(text string) Block {
		return &PageBlock{
			ID:       MustParseID("01900000-0000-7000-8000-000000000001"),
			Props:    PageProps{Title: "Home"},
			Children: []Block{&TextBlock{Props: TextProps{Text: text}}},
		}
	}
	d1, err := Digest(tree("a"))
	require.NoError(t, err)
	d2, err := Digest(tree("a"))
	require.NoError(t, err)
	d3, err := Digest(tree("b"))
	require.NoError(t, err)

	assert.Len(t, d1, 64)
	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}
