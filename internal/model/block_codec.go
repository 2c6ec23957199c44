package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ChildrenSeparator delimits ids in the stored children column.
const ChildrenSeparator = ","

// EncodeChildren joins child ids into the stored children form.
func EncodeChildren(ids []ID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ChildrenSeparator)
}

// DecodeChildren splits the stored children form. The column is advisory,
// so empty segments are skipped.
func DecodeChildren(s string) ([]ID, error) {
	var ids []ID
	for _, part := range strings.Split(s, ChildrenSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := ParseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// EncodeProps serialises the kind-specific properties of a new block.
// props may be a typed props value, a map or a raw JSON string.
func EncodeProps(kind Kind, props any) (string, error) {
	var raw []byte
	switch p := props.(type) {
	case string:
		raw = []byte(p)
	case json.RawMessage:
		raw = p
	case nil:
		return "", fmt.Errorf("missing properties for %s block", kind)
	default:
		var err error
		raw, err = json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("failed to marshal %s properties: %w", kind, err)
		}
	}

	// Validate against the kind's schema before anything reaches storage.
	switch kind {
	case KindPage:
		if _, err := decodePageProps(raw); err != nil {
			return "", err
		}
	case KindText:
		if _, err := decodeTextProps(raw); err != nil {
			return "", err
		}
	case KindDummy:
		return "", fmt.Errorf("cannot store blocks of kind %s", kind)
	default:
		return "", fmt.Errorf("unknown block kind %q", kind)
	}
	return string(raw), nil
}

func decodePageProps(raw []byte) (PageProps, error) {
	var p struct {
		Title *string `json:"title"`
	}
	if err := strictUnmarshal(raw, &p); err != nil {
		return PageProps{}, fmt.Errorf("invalid page properties: %w", err)
	}
	if p.Title == nil {
		return PageProps{}, fmt.Errorf("invalid page properties: missing field \"title\"")
	}
	return PageProps{Title: *p.Title}, nil
}

func decodeTextProps(raw []byte) (TextProps, error) {
	var p struct {
		Text *string `json:"text"`
	}
	if err := strictUnmarshal(raw, &p); err != nil {
		return TextProps{}, fmt.Errorf("invalid text properties: %w", err)
	}
	if p.Text == nil {
		return TextProps{}, fmt.Errorf("invalid text properties: missing field \"text\"")
	}
	return TextProps{Text: *p.Text}, nil
}

// strictUnmarshal rejects trailing data and non-object payloads.
func strictUnmarshal(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON object")
	}
	return nil
}

// ToBlock converts a flat record into a typed block with no children.
// Unknown kinds become a DummyBlock; malformed properties are an error.
func (r BlockRecord) ToBlock() (Block, error) {
	schedule := Schedule{Start: r.Start, End: r.End, Done: r.Done}
	switch kind := r.BlockKind(); kind {
	case KindPage:
		props, err := decodePageProps([]byte(r.Props))
		if err != nil {
			return nil, NewError(MalformedProperties, "decode", r.ID.String(), err)
		}
		return &PageBlock{ID: r.ID, ParentID: r.ParentID, Props: props, Schedule: schedule}, nil
	case KindText:
		props, err := decodeTextProps([]byte(r.Props))
		if err != nil {
			return nil, NewError(MalformedProperties, "decode", r.ID.String(), err)
		}
		return &TextBlock{ID: r.ID, ParentID: r.ParentID, Props: props, Schedule: schedule}, nil
	case KindDummy:
		return &DummyBlock{ID: r.ID, ParentID: r.ParentID, Schedule: schedule}, nil
	default:
		panic(fmt.Sprintf("unhandled block kind %q", kind))
	}
}
