package data

import (
	"context"
	"fmt"

	"notation/local-app/internal/event"
	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
	"notation/local-app/internal/storage"
)

// PageExport writes the page id to filename, including the contents of
// every page nested below it. Blocks of unknown kinds are left out.
func (m *Manager) PageExport(ctx context.Context, id model.ID, filename string, format storage.FileFormat) error {
	page, err := m.PageGet(ctx, id)
	if err != nil {
		return err
	}

	root, err := m.exportPage(ctx, page, map[model.ID]bool{})
	if err != nil {
		return err
	}
	if err := storage.FileExport(root, filename, format); err != nil {
		m.logger.Error(ctx, "Failed to export page", log.Fields{"id": id.String(), "file": filename, "error": err})
		return fmt.Errorf("failed to export page: %w", err)
	}

	m.logger.Info(ctx, "Page exported", log.Fields{"id": id.String(), "file": filename, "format": string(format)})
	m.events.Publish(event.Event{Type: event.PageExported, Data: event.FileData{ID: id, Filename: filename}})
	return nil
}

func (m *Manager) exportPage(ctx context.Context, page *model.PageBlock, visited map[model.ID]bool) (*storage.ExportNode, error) {
	if visited[page.ID] {
		return nil, model.NewError(model.CycleDetected, "export", page.ID.String(), nil)
	}
	visited[page.ID] = true

	node := newExportNode(page, page.Schedule)
	node.Title = page.Props.Title
	if err := m.exportChildren(ctx, node, page.Children, visited); err != nil {
		return nil, err
	}
	return node, nil
}

func (m *Manager) exportChildren(ctx context.Context, node *storage.ExportNode, children []model.Block, visited map[model.ID]bool) error {
	for _, child := range children {
		switch c := child.(type) {
		case *model.PageBlock:
			// Nested pages arrive without their contents.
			full, err := m.PageGet(ctx, c.ID)
			if err != nil {
				return err
			}
			n, err := m.exportPage(ctx, full, visited)
			if err != nil {
				return err
			}
			node.Children = append(node.Children, *n)
		case *model.TextBlock:
			n := newExportNode(c, c.Schedule)
			n.Text = c.Props.Text
			if err := m.exportChildren(ctx, n, c.Children, visited); err != nil {
				return err
			}
			node.Children = append(node.Children, *n)
		case *model.DummyBlock:
		default:
			panic(fmt.Sprintf("unexpected block type %T", child))
		}
	}
	return nil
}

func newExportNode(b model.Block, s model.Schedule) *storage.ExportNode {
	return &storage.ExportNode{
		ID:    b.BlockID().String(),
		Kind:  b.BlockKind().String(),
		Start: s.Start,
		End:   s.End,
		Done:  s.Done,
	}
}

// PageImport reads a page tree from filename and stores it under parent,
// or as a top-level page when parent is nil. Every block gets a fresh id.
// Nothing is stored unless the whole tree is.
func (m *Manager) PageImport(ctx context.Context, filename string, format storage.FileFormat, parent *model.ID) (model.ID, error) {
	root, err := storage.FileImport(filename, format)
	if err != nil {
		m.logger.Error(ctx, "Failed to import page", log.Fields{"file": filename, "error": err})
		return model.NilID, fmt.Errorf("failed to import page: %w", err)
	}
	if model.ParseKind(root.Kind) != model.KindPage {
		return model.NilID, model.NewError(model.RootNotAPage, "import", root.ID, fmt.Errorf("block kind is %q", root.Kind))
	}

	rootID, err := model.NewID()
	if err != nil {
		return model.NilID, err
	}
	var records []model.BlockRecord
	if err := flatten(root, rootID, parent, &records); err != nil {
		return model.NilID, err
	}
	if err := m.store.BlockImport(ctx, records); err != nil {
		return model.NilID, err
	}

	m.logger.Info(ctx, "Page imported", log.Fields{"id": rootID.String(), "file": filename, "blocks": len(records)})
	m.events.Publish(event.Event{
		Type: event.PageImported,
		Data: event.BlockData{ID: rootID, Kind: model.KindPage, ParentID: parent, Count: len(records)},
	})
	return rootID, nil
}

// flatten appends node and its descendants to out, parents before children.
func flatten(node *storage.ExportNode, id model.ID, parent *model.ID, out *[]model.BlockRecord) error {
	kind := model.ParseKind(node.Kind)
	var props any
	switch kind {
	case model.KindPage:
		props = model.PageProps{Title: node.Title}
	case model.KindText:
		props = model.TextProps{Text: node.Text}
	case model.KindDummy:
		return model.NewError(model.MalformedRecord, "import", node.ID, fmt.Errorf("unknown block kind %q", node.Kind))
	default:
		panic(fmt.Sprintf("unhandled block kind %q", kind))
	}
	encoded, err := model.EncodeProps(kind, props)
	if err != nil {
		return model.NewError(model.MalformedProperties, "import", node.ID, err)
	}

	childIDs := make([]model.ID, len(node.Children))
	for i := range childIDs {
		if childIDs[i], err = model.NewID(); err != nil {
			return err
		}
	}

	*out = append(*out, model.BlockRecord{
		ID:       id,
		Kind:     kind.String(),
		ParentID: parent,
		Children: model.EncodeChildren(childIDs),
		Props:    encoded,
		Start:    node.Start,
		End:      node.End,
		Done:     node.Done,
	})
	for i := range node.Children {
		if err := flatten(&node.Children[i], childIDs[i], &id, out); err != nil {
			return err
		}
	}
	return nil
}
