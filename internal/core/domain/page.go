package domain

// PropertyKind discriminates destination property types.
type PropertyKind int

const (
	// PropTitle is the page title property. Every page has exactly one.
	PropTitle PropertyKind = iota

	// PropRichText is a long-form or short-form text property.
	PropRichText

	// PropSelect is a single-select option.
	PropSelect

	// PropMultiSelect is a multi-select option list.
	PropMultiSelect

	// PropURL is a URL property.
	PropURL

	// PropDate is a date property (ISO 8601 start date).
	PropDate

	// PropFiles is a file-reference property carrying remote URLs only.
	PropFiles
)

// FileRef is one external file reference on a files property.
type FileRef struct {
	Name string
	URL  string
}

// Property is a tagged union over destination property values.
type Property struct {
	Kind    PropertyKind
	Text    string    // title, rich-text, select, url, date
	Options []string  // multi-select
	Files   []FileRef // files
}

// Properties maps property name to typed value.
type Properties map[string]Property

// TitleProperty builds a title value.
func TitleProperty(s string) Property {
	return Property{Kind: PropTitle, Text: s}
}

// RichTextProperty builds a rich-text value.
func RichTextProperty(s string) Property {
	return Property{Kind: PropRichText, Text: s}
}

// SelectProperty builds a single-select value.
func SelectProperty(s string) Property {
	return Property{Kind: PropSelect, Text: s}
}

// MultiSelectProperty builds a multi-select value.
func MultiSelectProperty(options ...string) Property {
	return Property{Kind: PropMultiSelect, Options: options}
}

// URLProperty builds a URL value.
func URLProperty(s string) Property {
	return Property{Kind: PropURL, Text: s}
}

// DateProperty builds a date value from an ISO 8601 string.
func DateProperty(s string) Property {
	return Property{Kind: PropDate, Text: s}
}

// FilesProperty builds a file-reference value.
func FilesProperty(files ...FileRef) Property {
	return Property{Kind: PropFiles, Files: files}
}

// BlockType discriminates page content block types.
type BlockType int

const (
	// BlockHeading is a section heading.
	BlockHeading BlockType = iota

	// BlockParagraph is a plain paragraph.
	BlockParagraph

	// BlockQuote is a quotation block.
	BlockQuote

	// BlockDivider is a horizontal rule. Carries no text.
	BlockDivider
)

// Block is one structured unit of page content.
type Block struct {
	Type BlockType
	Text string
}

// HeadingBlock builds a heading block.
func HeadingBlock(s string) Block {
	return Block{Type: BlockHeading, Text: s}
}

// ParagraphBlock builds a paragraph block.
func ParagraphBlock(s string) Block {
	return Block{Type: BlockParagraph, Text: s}
}

// QuoteBlock builds a quote block.
func QuoteBlock(s string) Block {
	return Block{Type: BlockQuote, Text: s}
}

// DividerBlock builds a divider block.
func DividerBlock() Block {
	return Block{Type: BlockDivider}
}

// DestinationPage represents (or will represent) the mirrored entity.
// The title is the stable lookup key: source and destination use
// different ID spaces and no foreign-key column is guaranteed.
type DestinationPage struct {
	// ID is the destination-assigned identifier, present once created.
	ID string

	// Title equals the source record's display name.
	Title string

	// Properties is the typed property set.
	Properties Properties

	// Blocks is the ordered page content.
	Blocks []Block
}
