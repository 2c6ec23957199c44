package tree

import (
	"context"

	"notation/local-app/internal/model"
)

// ChildLister returns the records whose parent is one of parents.
type ChildLister func(ctx context.Context, parents []model.ID) ([]model.BlockRecord, error)

// Closure collects root and its descendants level by level. A page other
// than root is included but not expanded. Every id is visited at most once,
// so the walk ends after as many rounds as there are distinct ids even when
// parent pointers form a cycle. The root comes first in the result.
func Closure(ctx context.Context, root model.BlockRecord, list ChildLister) ([]model.BlockRecord, error) {
	result := []model.BlockRecord{root}
	visited := map[model.ID]bool{root.ID: true}
	frontier := []model.BlockRecord{root}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var expand []model.ID
		for _, r := range frontier {
			if !r.IsPage() || r.ID == root.ID {
				expand = append(expand, r.ID)
			}
		}
		if len(expand) == 0 {
			break
		}

		children, err := list(ctx, expand)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0:0]
		for _, c := range children {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			result = append(result, c)
			frontier = append(frontier, c)
		}
	}
	return result, nil
}
