package services

import (
	"strings"

	"github.com/Acurioustractor/airtable-notion-sync/internal/chunker"
	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// Source field names. These match the Airtable base; lookup fields keep
// the parenthesised names Airtable generates for rollups.
const (
	FieldName         = "Name"
	FieldLocation     = "Location"
	FieldOrganisation = "Organisation"
	FieldProject      = "Project"
	FieldPreferences  = "Preferences"
	FieldCreatedAt    = "Created At"
	FieldSummary      = "Summary (from Media)"
	FieldDescription  = "Description (from Themes) (from Media)"
	FieldThemes       = "Themes"
	FieldWebsite      = "Website"
	FieldProfileImage = "Profile Image"
	FieldQuotes       = "Quotes"
	FieldTranscript   = "Transcript"
)

// Destination property names.
const (
	PropName         = "Name"
	PropLocation     = "Location"
	PropOrganisation = "Organisation"
	PropProject      = "Project"
	PropPreferences  = "Preferences"
	PropCreatedAt    = "Created At"
	PropSummary      = "Summary"
	PropDescription  = "Description"
	PropThemes       = "Themes"
	PropWebsite      = "Website"
	PropProfileImage = "Profile Image"
)

// DefaultTitle is used when the source name field is absent or empty.
const DefaultTitle = "Untitled"

// Content section headings.
const (
	quotesHeading     = "Quotes"
	transcriptHeading = "Transcript"
)

// lookupJoinSeparator joins multi-element lookup values destined for
// long-form text.
const lookupJoinSeparator = "\n\n"

// MappedPage is the mapper's output: a property set plus the raw
// material the block builder turns into page content. Quote IDs stay
// unresolved here; the orchestrator supplies the lookup table.
type MappedPage struct {
	Title      string
	Properties domain.Properties
	QuoteIDs   []string
	Transcript string
}

// MapRecord translates one source record into destination properties.
// Pure and total: absent or malformed fields are omitted, never errors.
// Only the title is always present, defaulting to DefaultTitle.
func MapRecord(rec domain.SourceRecord) MappedPage {
	title := strings.TrimSpace(rec.Text(FieldName))
	if title == "" {
		title = DefaultTitle
	}

	props := domain.Properties{
		PropName: domain.TitleProperty(title),
	}

	// Single-select fields map 1:1.
	selects := map[string]string{
		FieldLocation:     PropLocation,
		FieldOrganisation: PropOrganisation,
		FieldProject:      PropProject,
		FieldPreferences:  PropPreferences,
	}
	for src, dst := range selects {
		if v := rec.Text(src); v != "" {
			props[dst] = domain.SelectProperty(v)
		}
	}

	if d := rec.Text(FieldCreatedAt); d != "" {
		props[PropCreatedAt] = domain.DateProperty(d)
	}

	// Summary is a lookup that arrives as a list even for a single
	// value: take the first element.
	if s := rec.Text(FieldSummary); s != "" {
		props[PropSummary] = domain.RichTextProperty(s)
	}

	// Description is long-form: join all lookup elements.
	if parts := nonEmpty(rec.TextList(FieldDescription)); len(parts) > 0 {
		props[PropDescription] = domain.RichTextProperty(strings.Join(parts, lookupJoinSeparator))
	}

	if themes := nonEmpty(rec.TextList(FieldThemes)); len(themes) > 0 {
		props[PropThemes] = domain.MultiSelectProperty(themes...)
	}

	if u := rec.Text(FieldWebsite); u != "" {
		props[PropWebsite] = domain.URLProperty(u)
	}

	// Attachment: reference the remote URL only, no binary re-upload.
	// Prefer the large thumbnail tier; fall back to the raw URL when the
	// source has not generated thumbnails.
	if atts := rec.Attachments(FieldProfileImage); len(atts) > 0 {
		url := atts[0].ThumbnailURL
		if url == "" {
			url = atts[0].URL
		}
		if url != "" {
			props[PropProfileImage] = domain.FilesProperty(domain.FileRef{
				Name: title + " Profile",
				URL:  url,
			})
		}
	}

	return MappedPage{
		Title:      title,
		Properties: props,
		QuoteIDs:   rec.Links(FieldQuotes),
		Transcript: rec.Text(FieldTranscript),
	}
}

// BuildBlocks renders a mapped page's content: a quote section (heading,
// one quote block per resolved ID, divider) followed by the transcript
// split into paragraph blocks under its own heading. Unresolved quote
// IDs are skipped; a section with nothing to show is omitted entirely.
func BuildBlocks(m MappedPage, quotes map[string]string) []domain.Block {
	var blocks []domain.Block

	var resolved []string
	for _, id := range m.QuoteIDs {
		if text, ok := quotes[id]; ok && text != "" {
			resolved = append(resolved, text)
		}
	}
	if len(resolved) > 0 {
		blocks = append(blocks, domain.HeadingBlock(quotesHeading))
		for _, q := range resolved {
			blocks = append(blocks, domain.QuoteBlock(q))
		}
		blocks = append(blocks, domain.DividerBlock())
	}

	if m.Transcript != "" {
		blocks = append(blocks, domain.HeadingBlock(transcriptHeading))
		for _, part := range chunker.Split(m.Transcript, chunker.DefaultLimit) {
			blocks = append(blocks, domain.ParagraphBlock(part))
		}
	}

	return blocks
}

// nonEmpty filters empty strings out of a list.
func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
