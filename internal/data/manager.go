// Package data provides the page operations used by the command line:
// reading page trees, listing pages, adding blocks, and moving page trees
// in and out of files.
package data

import (
	"context"

	"notation/local-app/internal/event"
	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
	"notation/local-app/internal/storage"
	"notation/local-app/internal/tree"
)

// Manager is the main struct that coordinates all data operations. It keeps
// no state between calls; every read rebuilds its tree from the store.
type Manager struct {
	store  storage.BlockStore
	events *event.EventManager
	logger *log.Logger
}

// NewManager creates a new Manager instance
func NewManager(store storage.BlockStore, events *event.EventManager, logger *log.Logger) *Manager {
	return &Manager{
		store:  store,
		events: events,
		logger: logger,
	}
}

// PageGet fetches the page id and everything under it down to, but not
// into, nested pages.
func (m *Manager) PageGet(ctx context.Context, id model.ID) (*model.PageBlock, error) {
	records, err := m.store.BlockSubtree(ctx, id)
	if err != nil {
		m.logFailure(ctx, "Failed to fetch page", id, err)
		return nil, err
	}

	page, err := tree.BuildTree(id, records)
	if err != nil {
		m.logFailure(ctx, "Failed to build page", id, err)
		return nil, err
	}
	return page, nil
}

// PageList returns every page without a parent. Each one carries its nested
// pages, built from the set of all pages.
func (m *Manager) PageList(ctx context.Context) ([]*model.PageBlock, error) {
	records, err := m.store.BlockPages(ctx)
	if err != nil {
		m.logger.Error(ctx, "Failed to fetch pages", log.Fields{"error": err})
		return nil, err
	}

	forest, err := tree.BuildForest(records)
	if err != nil {
		m.logger.Error(ctx, "Failed to build page list", log.Fields{"error": err})
		return nil, err
	}
	return forest, nil
}

// BlockAdd stores a new block and returns its id.
func (m *Manager) BlockAdd(ctx context.Context, info model.BlockInfo) (model.ID, error) {
	id, err := m.store.BlockAdd(ctx, info)
	if err != nil {
		return model.NilID, err
	}

	m.events.Publish(event.Event{
		Type: event.BlockAdded,
		Data: event.BlockData{ID: id, Kind: info.Kind, ParentID: info.ParentID, Count: 1},
	})
	return id, nil
}

// logFailure logs classified lookups such as a missing page as warnings and
// everything else as errors.
func (m *Manager) logFailure(ctx context.Context, msg string, id model.ID, err error) {
	fields := log.Fields{"id": id.String(), "error": err, "kind": model.KindOf(err).String()}
	switch model.KindOf(err) {
	case model.NotFound, model.RootMissing, model.RootNotAPage:
		m.logger.Warn(ctx, msg, fields)
	default:
		m.logger.Error(ctx, msg, fields)
	}
}
