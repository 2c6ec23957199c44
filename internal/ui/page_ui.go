package ui

import (
	"fmt"
	"io"
	"strings"

	"notation/local-app/internal/model"
)

// PageUI handles the visualization of pages.
type PageUI struct {
	visualizer *Visualizer
}

// NewPageUI creates a new PageUI instance.
func NewPageUI(w io.Writer, useColor bool) *PageUI {
	return &PageUI{
		visualizer: NewVisualizer(w, useColor),
	}
}

// PageView displays a page and every block under it.
func (pui *PageUI) PageView(page *model.PageBlock, showID bool) {
	for _, line := range renderTree(page, showID, false) {
		pui.visualizer.PrintMultiColoredLine(line)
	}
}

// PageList displays the navigation forest: top-level pages and the pages
// nested in them, without text.
func (pui *PageUI) PageList(forest []*model.PageBlock, showID bool) {
	if len(forest) == 0 {
		pui.visualizer.Println("No pages available")
		return
	}
	for _, page := range forest {
		for _, line := range renderTree(page, showID, true) {
			pui.visualizer.PrintMultiColoredLine(line)
		}
	}
}

// renderTree draws b and its children with box-drawing connectors. With
// pagesOnly set, text and unknown blocks are left out.
func renderTree(root model.Block, showID, pagesOnly bool) []string {
	var output []string

	var build func(b model.Block, prefix string, isLast, isRoot bool)
	build = func(b model.Block, prefix string, isLast, isRoot bool) {
		var line strings.Builder
		line.WriteString(prefix)
		if !isRoot {
			if isLast {
				line.WriteString("{{brown}}└── {{default}}")
				prefix += "    "
			} else {
				line.WriteString("{{brown}}├── {{default}}")
				prefix += "{{brown}}│   {{default}}"
			}
		}
		line.WriteString(blockLabel(b))
		if showID {
			line.WriteString(fmt.Sprintf(" {{orange}}[%s]{{default}}", b.BlockID()))
		}
		output = append(output, line.String())

		children := b.BlockChildren()
		if pagesOnly {
			children = children[:0:0]
			for _, c := range b.BlockChildren() {
				if c.BlockKind() == model.KindPage {
					children = append(children, c)
				}
			}
		}
		for i, child := range children {
			build(child, prefix, i == len(children)-1, false)
		}
	}

	build(root, "", true, true)
	return output
}

func blockLabel(b model.Block) string {
	var label string
	var schedule model.Schedule
	switch v := b.(type) {
	case *model.PageBlock:
		label = "{{yellow}}" + v.Props.Title + "{{default}}"
		schedule = v.Schedule
	case *model.TextBlock:
		label = v.Props.Text
		schedule = v.Schedule
	case *model.DummyBlock:
		label = "{{gray}}(unsupported block){{default}}"
		schedule = v.Schedule
	default:
		panic(fmt.Sprintf("unexpected block type %T", b))
	}

	if schedule.Done {
		label = "{{green}}[x]{{default}} " + label
	}
	if schedule.Start != nil || schedule.End != nil {
		label += " {{purple}}" + formatSchedule(schedule) + "{{default}}"
	}
	return label
}

func formatSchedule(s model.Schedule) string {
	const layout = "2006-01-02 15:04"
	switch {
	case s.Start != nil && s.End != nil:
		return s.Start.Local().Format(layout) + " → " + s.End.Local().Format(layout)
	case s.Start != nil:
		return "from " + s.Start.Local().Format(layout)
	default:
		return "due " + s.End.Local().Format(layout)
	}
}
