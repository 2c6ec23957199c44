// Package tree turns flat block records into nested, typed page trees.
package tree

import (
	"fmt"

	"notation/local-app/internal/model"
)

// BuildTree assembles the page rooted at rootID from records. Children are
// attached in the order they appear in records. The result is complete or
// the call fails: RootMissing when no record has rootID, RootNotAPage when
// that record is not a page, MalformedProperties when any record's props do
// not decode, and CycleDetected when a block would be attached twice.
func BuildTree(rootID model.ID, records []model.BlockRecord) (*model.PageBlock, error) {
	var rootRecord *model.BlockRecord
	for i := range records {
		if records[i].ID == rootID {
			rootRecord = &records[i]
			break
		}
	}
	if rootRecord == nil {
		return nil, model.NewError(model.RootMissing, "build", rootID.String(), nil)
	}
	if !rootRecord.IsPage() {
		return nil, model.NewError(model.RootNotAPage, "build", rootID.String(),
			fmt.Errorf("block kind is %q", rootRecord.Kind))
	}

	root, err := rootRecord.ToBlock()
	if err != nil {
		return nil, err
	}

	index, err := indexChildren(rootID, root, records)
	if err != nil {
		return nil, err
	}

	visited := map[model.ID]bool{}
	if err := attach(root, index, visited); err != nil {
		return nil, err
	}
	return root.(*model.PageBlock), nil
}

// BuildForest builds a tree for every page in records that has no parent,
// using all of records as the pool of candidate children.
func BuildForest(records []model.BlockRecord) ([]*model.PageBlock, error) {
	var forest []*model.PageBlock
	for _, r := range records {
		if r.ParentID != nil || !r.IsPage() {
			continue
		}
		page, err := BuildTree(r.ID, records)
		if err != nil {
			return nil, err
		}
		forest = append(forest, page)
	}
	return forest, nil
}

// indexChildren groups blocks by parent id. Each id is converted once, so
// the root keeps the instance already built for it; later duplicates of an
// id are ignored.
func indexChildren(rootID model.ID, root model.Block, records []model.BlockRecord) (map[model.ID][]model.Block, error) {
	index := make(map[model.ID][]model.Block)
	seen := map[model.ID]bool{}
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		if r.ParentID == nil {
			continue
		}

		var b model.Block
		if r.ID == rootID {
			b = root
		} else {
			var err error
			if b, err = r.ToBlock(); err != nil {
				return nil, err
			}
		}
		index[*r.ParentID] = append(index[*r.ParentID], b)
	}
	return index, nil
}

func attach(b model.Block, index map[model.ID][]model.Block, visited map[model.ID]bool) error {
	visited[b.BlockID()] = true
	children := index[b.BlockID()]
	for _, child := range children {
		if visited[child.BlockID()] {
			return model.NewError(model.CycleDetected, "build", child.BlockID().String(),
				fmt.Errorf("block is reachable from its own subtree"))
		}
		if err := attach(child, index, visited); err != nil {
			return err
		}
	}
	if len(children) > 0 {
		model.SetChildren(b, children)
	}
	return nil
}
