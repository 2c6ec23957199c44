// Package model defines the data structures used throughout the Notation application.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID identifies a block. It wraps a UUIDv7, so ids sort by creation time.
type ID uuid.UUID

// NilID is the zero identifier.
var NilID ID

// NewID returns a fresh time-ordered identifier.
func NewID() (ID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return NilID, fmt.Errorf("failed to generate block id: %w", err)
	}
	return ID(id), nil
}

// ParseID parses the canonical text form of an identifier.
func ParseID(s string) (ID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilID, fmt.Errorf("invalid block id %q: %w", s, err)
	}
	return ID(id), nil
}

// MustParseID is ParseID for literals in tests and fixtures.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return uuid.UUID(id).String() }
func (id ID) IsZero() bool   { return id == NilID }

// MarshalText implements encoding.TextMarshaler for JSON and XML encoding.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Kind is the block kind tag.
type Kind string

const (
	KindPage Kind = "page"
	KindText Kind = "text"
	// KindDummy stands in for kinds this build does not recognise. It is
	// never written to storage.
	KindDummy Kind = "empty"
)

// ParseKind maps a stored kind string to a Kind. Unknown values map to KindDummy.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(s)) {
	case KindPage:
		return KindPage
	case KindText:
		return KindText
	default:
		return KindDummy
	}
}

func (k Kind) String() string { return string(k) }

// Storable reports whether blocks of this kind may be created.
func (k Kind) Storable() bool {
	return k == KindPage || k == KindText
}

// BlockRecord is one flat row of the blocks table.
type BlockRecord struct {
	ID       ID
	Kind     string
	ParentID *ID
	Children string
	Props    string
	Start    *time.Time
	End      *time.Time
	Done     bool
}

// BlockKind returns the parsed kind of the record.
func (r BlockRecord) BlockKind() Kind {
	return ParseKind(r.Kind)
}

// IsPage reports whether the record is a page.
func (r BlockRecord) IsPage() bool {
	return r.BlockKind() == KindPage
}

// BlockInfo carries the fields needed to create a block.
type BlockInfo struct {
	Kind     Kind
	ParentID *ID
	Children []ID
	Props    any
	Start    *time.Time
	End      *time.Time
	Done     bool
}

// PageProps are the properties of a page block.
type PageProps struct {
	Title string `json:"title" xml:"title"`
}

// TextProps are the properties of a text block.
type TextProps struct {
	Text string `json:"text" xml:"text"`
}

// Schedule is the optional scheduling metadata shared by every block kind.
type Schedule struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	Done  bool       `json:"done,omitempty"`
}

// Block is a node of a page tree. The set of implementations is closed:
// *PageBlock, *TextBlock and *DummyBlock.
type Block interface {
	BlockID() ID
	BlockParentID() *ID
	BlockKind() Kind
	BlockChildren() []Block
	setChildren(children []Block)
}

// PageBlock is a page, the unit that is opened and navigated.
type PageBlock struct {
	ID       ID
	ParentID *ID
	Children []Block
	Props    PageProps
	Schedule
}

// TextBlock is a block of text inside a page.
type TextBlock struct {
	ID       ID
	ParentID *ID
	Children []Block
	Props    TextProps
	Schedule
}

// DummyBlock is a block of a kind this build does not understand. It keeps
// its place in the tree but carries no properties.
type DummyBlock struct {
	ID       ID
	ParentID *ID
	Children []Block
	Schedule
}

func (b *PageBlock) BlockID() ID                  { return b.ID }
func (b *PageBlock) BlockParentID() *ID           { return b.ParentID }
func (b *PageBlock) BlockKind() Kind              { return KindPage }
func (b *PageBlock) BlockChildren() []Block       { return b.Children }
func (b *PageBlock) setChildren(children []Block) { b.Children = children }

func (b *TextBlock) BlockID() ID                  { return b.ID }
func (b *TextBlock) BlockParentID() *ID           { return b.ParentID }
func (b *TextBlock) BlockKind() Kind              { return KindText }
func (b *TextBlock) BlockChildren() []Block       { return b.Children }
func (b *TextBlock) setChildren(children []Block) { b.Children = children }

func (b *DummyBlock) BlockID() ID                  { return b.ID }
func (b *DummyBlock) BlockParentID() *ID           { return b.ParentID }
func (b *DummyBlock) BlockKind() Kind              { return KindDummy }
func (b *DummyBlock) BlockChildren() []Block       { return b.Children }
func (b *DummyBlock) setChildren(children []Block) { b.Children = children }

// SetChildren replaces the children of b.
func SetChildren(b Block, children []Block) {
	b.setChildren(children)
}

// blockJSON is the tagged wire form of a block.
type blockJSON struct {
	Kind     Kind     `json:"kind"`
	ID       ID       `json:"id"`
	ParentID *ID      `json:"parent_id"`
	Props    any      `json:"props,omitempty"`
	Children []Block  `json:"children"`
	Schedule Schedule `json:"schedule"`
}

func (b *PageBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{Kind: KindPage, ID: b.ID, ParentID: b.ParentID, Props: b.Props, Children: nonNil(b.Children), Schedule: b.Schedule})
}

func (b *TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{Kind: KindText, ID: b.ID, ParentID: b.ParentID, Props: b.Props, Children: nonNil(b.Children), Schedule: b.Schedule})
}

func (b *DummyBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{Kind: KindDummy, ID: b.ID, ParentID: b.ParentID, Children: nonNil(b.Children), Schedule: b.Schedule})
}

func nonNil(children []Block) []Block {
	if children == nil {
		return []Block{}
	}
	return children
}

// PageChildren returns the page children of p, skipping text and dummy blocks.
// Navigation views use it; the tree itself is never filtered.
func PageChildren(p *PageBlock) []*PageBlock {
	var pages []*PageBlock
	for _, child := range p.Children {
		switch c := child.(type) {
		case *PageBlock:
			pages = append(pages, c)
		case *TextBlock, *DummyBlock:
		default:
			panic(fmt.Sprintf("unexpected block type %T", child))
		}
	}
	return pages
}

// Walk visits b and its descendants depth first. Returning false from fn
// skips the children of the visited block.
func Walk(b Block, fn func(b Block, depth int) bool) {
	walk(b, 0, fn)
}

func walk(b Block, depth int, fn func(Block, int) bool) {
	if !fn(b, depth) {
		return
	}
	for _, child := range b.BlockChildren() {
		walk(child, depth+1, fn)
	}
}
