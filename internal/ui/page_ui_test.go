package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"notation/local-app/internal/model"
)

func samplePage() *model.PageBlock {
	due := time.Date(2024, 3, 1, 18, 0, 0, 0, time.Local)
	return &model.PageBlock{
		ID:    model.MustParseID("01900000-0000-7000-8000-000000000001"),
		Props: model.PageProps{Title: "Home"},
		Children: []model.Block{
			&model.TextBlock{Props: model.TextProps{Text: "buy milk"}, Schedule: model.Schedule{End: &due, Done: true},
				Children: []model.Block{&model.TextBlock{Props: model.TextProps{Text: "oat"}}}},
			&model.DummyBlock{},
			&model.PageBlock{Props: model.PageProps{Title: "Work"}},
		},
	}
}

func TestPageView(t *testing.T) {
	var buf bytes.Buffer
	NewPageUI(&buf, false).PageView(samplePage(), false)

	want := "Home\n" +
		"├── [x] buy milk due 2024-03-01 18:00\n" +
		"│   └── oat\n" +
		"├── (unsupported block)\n" +
		"└── Work\n"
	assert.Equal(t, want, buf.String())
}

func TestPageList(t *testing.T) {
	var buf bytes.Buffer
	NewPageUI(&buf, false).PageList([]*model.PageBlock{samplePage()}, true)

	want := "Home [01900000-0000-7000-8000-000000000001]\n" +
		"└── Work [00000000-0000-0000-0000-000000000000]\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	NewPageUI(&buf, false).PageList(nil, false)
	assert.Equal(t, "No pages available\n", buf.String())
}

func TestPrintMultiColoredLine(t *testing.T) {
	var buf bytes.Buffer
	NewVisualizer(&buf, true).PrintMultiColoredLine("a {{yellow}}b{{default}} c")
	assert.Equal(t, "a "+string(ColorYellow)+"b"+string(ColorDefault)+" c\n", buf.String())

	buf.Reset()
	NewVisualizer(&buf, false).PrintMultiColoredLine("{{nope}}x")
	assert.Equal(t, "x\n", buf.String())
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ColorEnabled(&buf, true))
	assert.False(t, ColorEnabled(&buf, false))
}

func TestPrompt(t *testing.T) {
	u := NewUI(&bytes.Buffer{}, false)
	assert.Equal(t, "notation > ", u.GetPromptString(""))
	assert.Equal(t, "notation @ Home > ", u.GetPromptString("Home"))
}
