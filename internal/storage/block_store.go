package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"notation/local-app/internal/log"
	"notation/local-app/internal/model"
	"notation/local-app/internal/tree"
)

// BlockStore reads and writes flat block records.
type BlockStore interface {
	// BlockAdd stores a new block and returns its id.
	BlockAdd(ctx context.Context, info model.BlockInfo) (model.ID, error)
	// BlockSubtree returns the root record followed by its descendants,
	// without the contents of nested pages.
	BlockSubtree(ctx context.Context, rootID model.ID) ([]model.BlockRecord, error)
	// BlockPages returns every page record.
	BlockPages(ctx context.Context) ([]model.BlockRecord, error)
	// BlockImport stores records in one transaction. Parents must precede
	// their children.
	BlockImport(ctx context.Context, records []model.BlockRecord) error
}

// maxBatch bounds the number of parent ids bound into one IN list.
const maxBatch = 500

const blockColumns = `b.id, b.kind, b.parent_id, b.children, b.props, b.start, b."end", b.done`

// The page-boundary rule lives in the recursive member: a frontier row is
// only expanded if it is not a page or it is the root. UNION discards rows
// already produced, which ends the recursion on parent-pointer cycles.
const subtreeQuery = `
WITH RECURSIVE subtree(id, kind) AS (
	SELECT id, kind FROM blocks WHERE id = ?
	UNION
	SELECT c.id, c.kind FROM blocks c JOIN subtree s ON c.parent_id = s.id
	WHERE lower(s.kind) <> 'page' OR s.id = ?
)
SELECT ` + blockColumns + ` FROM blocks b JOIN subtree t ON b.id = t.id
ORDER BY CASE WHEN b.id = ? THEN 0 ELSE 1 END, b.id`

const blockByIDQuery = `SELECT ` + blockColumns + ` FROM blocks b WHERE b.id = ?`

const pagesQuery = `SELECT ` + blockColumns + ` FROM blocks b WHERE lower(b.kind) = 'page' ORDER BY b.id`

const insertBlockQuery = `INSERT INTO blocks (id, kind, parent_id, children, props, start, "end", done) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// BlockStorage implements BlockStore on a Database.
type BlockStorage struct {
	db       Database
	strategy QueryStrategy
	logger   *log.Logger
}

func NewBlockStorage(db Database, strategy QueryStrategy, logger *log.Logger) *BlockStorage {
	return &BlockStorage{db: db, strategy: strategy, logger: logger}
}

// BlockAdd validates and stores a new block with a fresh time-ordered id.
func (s *BlockStorage) BlockAdd(ctx context.Context, info model.BlockInfo) (model.ID, error) {
	if !info.Kind.Storable() {
		return model.NilID, fmt.Errorf("cannot add block of kind %q", info.Kind)
	}
	props, err := model.EncodeProps(info.Kind, info.Props)
	if err != nil {
		return model.NilID, model.NewError(model.MalformedProperties, "add block", "", err)
	}
	id, err := model.NewID()
	if err != nil {
		return model.NilID, err
	}

	record := model.BlockRecord{
		ID:       id,
		Kind:     info.Kind.String(),
		ParentID: info.ParentID,
		Children: model.EncodeChildren(info.Children),
		Props:    props,
		Start:    info.Start,
		End:      info.End,
		Done:     info.Done,
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(insertBlockQuery), insertArgs(record)...); err != nil {
		s.logger.Error(ctx, "Failed to insert block", log.Fields{"error": err, "kind": record.Kind})
		return model.NilID, s.db.Classify("add block", id.String(), err)
	}

	s.logger.Info(ctx, "Block added", log.Fields{"id": id.String(), "kind": record.Kind})
	return id, nil
}

// BlockSubtree fetches the subtree of rootID with the configured strategy.
// It fails with NotFound when there is no block rootID.
func (s *BlockStorage) BlockSubtree(ctx context.Context, rootID model.ID) ([]model.BlockRecord, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, s.db.Classify("fetch subtree", rootID.String(), err)
	}
	defer tx.Rollback()

	var records []model.BlockRecord
	switch s.strategy {
	case Iterative:
		records, err = s.subtreeIterative(ctx, tx, rootID)
	default:
		records, err = s.subtreeRecursive(ctx, tx, rootID)
	}
	if err != nil {
		return nil, s.db.Classify("fetch subtree", rootID.String(), err)
	}
	if len(records) == 0 {
		return nil, model.NewError(model.NotFound, "fetch subtree", rootID.String(), nil)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.db.Classify("fetch subtree", rootID.String(), err)
	}

	s.logger.Debug(ctx, "Subtree fetched", log.Fields{"root": rootID.String(), "records": len(records), "strategy": string(s.strategy)})
	return records, nil
}

func (s *BlockStorage) subtreeRecursive(ctx context.Context, tx *sql.Tx, rootID model.ID) ([]model.BlockRecord, error) {
	root := rootID.String()
	rows, err := tx.QueryContext(ctx, s.db.Rebind(subtreeQuery), root, root, root)
	if err != nil {
		return nil, err
	}
	records, err := scanRecords(ctx, rows)
	if err != nil {
		return nil, err
	}
	return dedupe(records), nil
}

func (s *BlockStorage) subtreeIterative(ctx context.Context, tx *sql.Tx, rootID model.ID) ([]model.BlockRecord, error) {
	rows, err := tx.QueryContext(ctx, s.db.Rebind(blockByIDQuery), rootID.String())
	if err != nil {
		return nil, err
	}
	found, err := scanRecords(ctx, rows)
	if err != nil || len(found) == 0 {
		return nil, err
	}

	return tree.Closure(ctx, found[0], func(ctx context.Context, parents []model.ID) ([]model.BlockRecord, error) {
		return s.childrenOf(ctx, tx, parents)
	})
}

// childrenOf returns the children of parents, ordered by id within each batch.
func (s *BlockStorage) childrenOf(ctx context.Context, tx *sql.Tx, parents []model.ID) ([]model.BlockRecord, error) {
	var out []model.BlockRecord
	for start := 0; start < len(parents); start += maxBatch {
		end := start + maxBatch
		if end > len(parents) {
			end = len(parents)
		}
		batch := parents[start:end]

		args := make([]interface{}, len(batch))
		for i, id := range batch {
			args[i] = id.String()
		}
		query := `SELECT ` + blockColumns + ` FROM blocks b WHERE b.parent_id IN (` +
			strings.TrimSuffix(strings.Repeat("?, ", len(batch)), ", ") + `) ORDER BY b.id`

		rows, err := tx.QueryContext(ctx, s.db.Rebind(query), args...)
		if err != nil {
			return nil, err
		}
		records, err := scanRecords(ctx, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

// BlockPages returns all page records in id order.
func (s *BlockStorage) BlockPages(ctx context.Context) ([]model.BlockRecord, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, s.db.Classify("fetch pages", "", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, s.db.Rebind(pagesQuery))
	if err != nil {
		return nil, s.db.Classify("fetch pages", "", err)
	}
	records, err := scanRecords(ctx, rows)
	if err != nil {
		return nil, s.db.Classify("fetch pages", "", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.db.Classify("fetch pages", "", err)
	}
	return records, nil
}

// BlockImport inserts records atomically.
func (s *BlockStorage) BlockImport(ctx context.Context, records []model.BlockRecord) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return s.db.Classify("import blocks", "", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.db.Rebind(insertBlockQuery))
	if err != nil {
		return s.db.Classify("import blocks", "", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, insertArgs(r)...); err != nil {
			s.logger.Error(ctx, "Failed to import block", log.Fields{"error": err, "id": r.ID.String()})
			return s.db.Classify("import blocks", r.ID.String(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.db.Classify("import blocks", "", err)
	}

	s.logger.Info(ctx, "Blocks imported", log.Fields{"count": len(records)})
	return nil
}

func insertArgs(r model.BlockRecord) []interface{} {
	var parent interface{}
	if r.ParentID != nil {
		parent = r.ParentID.String()
	}
	return []interface{}{r.ID.String(), r.Kind, parent, r.Children, r.Props, timeArg(r.Start), timeArg(r.End), r.Done}
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// scanRecords drains and closes rows. Identifiers that do not parse are
// reported as MalformedRecord.
func scanRecords(ctx context.Context, rows *sql.Rows) ([]model.BlockRecord, error) {
	defer rows.Close()

	var records []model.BlockRecord
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			id, kind, children, props string
			parent                    sql.NullString
			start, end                scanTime
			done                      bool
		)
		if err := rows.Scan(&id, &kind, &parent, &children, &props, &start, &end, &done); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}

		r := model.BlockRecord{Kind: kind, Children: children, Props: props, Start: start.t, End: end.t, Done: done}
		var err error
		if r.ID, err = model.ParseID(id); err != nil {
			return nil, model.NewError(model.MalformedRecord, "scan", id, err)
		}
		if parent.Valid {
			p, err := model.ParseID(parent.String)
			if err != nil {
				return nil, model.NewError(model.MalformedRecord, "scan", id, err)
			}
			r.ParentID = &p
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func dedupe(records []model.BlockRecord) []model.BlockRecord {
	seen := make(map[model.ID]bool, len(records))
	out := records[:0]
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// scanTime accepts timestamps as driver time values or as SQLite text.
type scanTime struct {
	t *time.Time
}

func (s *scanTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		s.t = nil
		return nil
	case time.Time:
		s.t = &v
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (s *scanTime) parse(v string) error {
	v = strings.TrimSuffix(v, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			s.t = &t
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", v)
}
