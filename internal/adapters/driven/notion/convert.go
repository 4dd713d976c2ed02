package notion

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// titlePropertyName is the database's title property.
const titlePropertyName = "Name"

// dateLayouts are the formats source date strings may arrive in.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// toNotionProperties converts the domain property set to the SDK's
// request shape. Unparseable dates are omitted, consistent with the
// mapper's degrade-to-omission rule.
func toNotionProperties(props domain.Properties) notionapi.Properties {
	out := make(notionapi.Properties, len(props))

	for name, prop := range props {
		switch prop.Kind {
		case domain.PropTitle:
			out[name] = notionapi.TitleProperty{
				Title: richText(prop.Text),
			}

		case domain.PropRichText:
			out[name] = notionapi.RichTextProperty{
				RichText: richText(prop.Text),
			}

		case domain.PropSelect:
			out[name] = notionapi.SelectProperty{
				Select: notionapi.Option{Name: prop.Text},
			}

		case domain.PropMultiSelect:
			options := make([]notionapi.Option, 0, len(prop.Options))
			for _, o := range prop.Options {
				options = append(options, notionapi.Option{Name: o})
			}
			out[name] = notionapi.MultiSelectProperty{
				MultiSelect: options,
			}

		case domain.PropURL:
			out[name] = notionapi.URLProperty{
				URL: prop.Text,
			}

		case domain.PropDate:
			if d, ok := parseDate(prop.Text); ok {
				out[name] = notionapi.DateProperty{
					Date: &notionapi.DateObject{Start: d},
				}
			}

		case domain.PropFiles:
			files := make([]notionapi.File, 0, len(prop.Files))
			for _, f := range prop.Files {
				files = append(files, notionapi.File{
					Name:     f.Name,
					Type:     notionapi.FileTypeExternal,
					External: &notionapi.FileObject{URL: f.URL},
				})
			}
			out[name] = notionapi.FilesProperty{
				Files: files,
			}
		}
	}
	return out
}

// toNotionBlocks converts domain content blocks to SDK blocks.
func toNotionBlocks(blocks []domain.Block) []notionapi.Block {
	out := make([]notionapi.Block, 0, len(blocks))

	for _, b := range blocks {
		switch b.Type {
		case domain.BlockHeading:
			out = append(out, notionapi.Heading2Block{
				BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
				Heading2:   notionapi.Heading{RichText: richText(b.Text)},
			})

		case domain.BlockParagraph:
			out = append(out, notionapi.ParagraphBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
				Paragraph:  notionapi.Paragraph{RichText: richText(b.Text)},
			})

		case domain.BlockQuote:
			out = append(out, notionapi.QuoteBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeQuote),
				Quote:      notionapi.Quote{RichText: richText(b.Text)},
			})

		case domain.BlockDivider:
			out = append(out, notionapi.DividerBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeDivider),
				Divider:    notionapi.Divider{},
			})
		}
	}
	return out
}

// basicBlock fills the boilerplate members every block carries.
func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   t,
	}
}

// richText wraps plain text in the SDK's rich text shape.
func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: s}},
	}
}

// parseDate parses a source date string into the SDK date type.
func parseDate(s string) (*notionapi.Date, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := notionapi.Date(t)
			return &d, true
		}
	}
	return nil, false
}
