package domain

// FieldKind discriminates the value shapes a source field can hold.
// Airtable returns loosely-typed JSON; decoding collapses it into these
// four kinds so that mapping rules never do dynamic type inspection.
type FieldKind int

const (
	// FieldText is a single scalar text value.
	FieldText FieldKind = iota

	// FieldTextList is a list of strings, typically a lookup/rollup field
	// whose value is pulled transitively from linked records.
	FieldTextList

	// FieldAttachmentList is a list of uploaded files with remote URLs.
	FieldAttachmentList

	// FieldLinkList is a list of record IDs pointing into another table.
	FieldLinkList
)

// Attachment describes one uploaded file on a record.
type Attachment struct {
	// URL is the full-size remote URL.
	URL string

	// Filename is the name the file was uploaded with.
	Filename string

	// ThumbnailURL is the large thumbnail tier, when the source has
	// generated one. Empty otherwise.
	ThumbnailURL string
}

// FieldValue is a tagged union over the field kinds.
// Only the member matching Kind is meaningful.
type FieldValue struct {
	Kind        FieldKind
	Text        string
	TextList    []string
	Attachments []Attachment
	Links       []string
}

// TextValue builds a scalar text field value.
func TextValue(s string) FieldValue {
	return FieldValue{Kind: FieldText, Text: s}
}

// TextListValue builds a lookup/rollup list field value.
func TextListValue(items ...string) FieldValue {
	return FieldValue{Kind: FieldTextList, TextList: items}
}

// AttachmentValue builds an attachment-list field value.
func AttachmentValue(atts ...Attachment) FieldValue {
	return FieldValue{Kind: FieldAttachmentList, Attachments: atts}
}

// LinkValue builds a linked-record field value.
func LinkValue(ids ...string) FieldValue {
	return FieldValue{Kind: FieldLinkList, Links: ids}
}

// SourceRecord is an immutable snapshot of one source row, fetched once
// per pass and discarded afterwards.
type SourceRecord struct {
	// ID is the source-assigned stable identifier.
	ID string

	// Fields maps field name to decoded value. Absent fields are simply
	// not present; absence is a first-class "no value" case.
	Fields map[string]FieldValue

	// ModifiedMarker is an opaque comparable token (creation or
	// modification timestamp string) used for change detection.
	ModifiedMarker string
}

// Field returns the named field value and whether it is present.
func (r *SourceRecord) Field(name string) (FieldValue, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Text returns the scalar text of a field. For list fields it returns the
// first element, since lookup fields arrive as lists even for
// conceptually single values. Returns "" when absent or empty.
func (r *SourceRecord) Text(name string) string {
	v, ok := r.Fields[name]
	if !ok {
		return ""
	}
	switch v.Kind {
	case FieldText:
		return v.Text
	case FieldTextList:
		if len(v.TextList) > 0 {
			return v.TextList[0]
		}
	}
	return ""
}

// TextList returns all text elements of a field. A scalar text field
// yields a single-element list. Returns nil when absent.
func (r *SourceRecord) TextList(name string) []string {
	v, ok := r.Fields[name]
	if !ok {
		return nil
	}
	switch v.Kind {
	case FieldText:
		if v.Text == "" {
			return nil
		}
		return []string{v.Text}
	case FieldTextList:
		return v.TextList
	}
	return nil
}

// Attachments returns the attachment list of a field, or nil.
func (r *SourceRecord) Attachments(name string) []Attachment {
	v, ok := r.Fields[name]
	if !ok || v.Kind != FieldAttachmentList {
		return nil
	}
	return v.Attachments
}

// Links returns the linked-record IDs of a field, or nil.
func (r *SourceRecord) Links(name string) []string {
	v, ok := r.Fields[name]
	if !ok || v.Kind != FieldLinkList {
		return nil
	}
	return v.Links
}

// HasAttachments reports whether the named field carries at least one
// attachment. Attachment URLs are not reliably reflected in the
// modification marker upstream, so change detection treats such records
// as always changed.
func (r *SourceRecord) HasAttachments(name string) bool {
	return len(r.Attachments(name)) > 0
}
