package airtable

import (
	"strconv"
	"strings"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/domain"
)

// recordIDLength is the fixed length of Airtable record IDs ("rec" plus
// 14 characters).
const recordIDLength = 17

// decodeFields collapses Airtable's loosely-typed field JSON into the
// domain's tagged union. Values that fit no kind are dropped: a
// malformed field degrades to absence, never to an error.
func decodeFields(raw map[string]any) map[string]domain.FieldValue {
	fields := make(map[string]domain.FieldValue, len(raw))

	for name, value := range raw {
		if fv, ok := decodeValue(value); ok {
			fields[name] = fv
		}
	}
	return fields
}

// decodeValue maps one JSON value to a field kind.
func decodeValue(value any) (domain.FieldValue, bool) {
	switch v := value.(type) {
	case string:
		return domain.TextValue(v), true

	case float64:
		return domain.TextValue(formatNumber(v)), true

	case bool:
		return domain.TextValue(strconv.FormatBool(v)), true

	case []any:
		return decodeList(v)
	}

	return domain.FieldValue{}, false
}

// decodeList classifies a JSON array as attachments, linked-record IDs
// or a plain lookup list.
func decodeList(items []any) (domain.FieldValue, bool) {
	if len(items) == 0 {
		return domain.FieldValue{}, false
	}

	// Attachment objects carry a url member.
	if obj, ok := items[0].(map[string]any); ok {
		if _, hasURL := obj["url"]; hasURL {
			return domain.AttachmentValue(decodeAttachments(items)...), true
		}
		return domain.FieldValue{}, false
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			texts = append(texts, t)
		case float64:
			texts = append(texts, formatNumber(t))
		}
	}
	if len(texts) == 0 {
		return domain.FieldValue{}, false
	}

	// A list where every element looks like a record ID is a
	// linked-record field.
	if allRecordIDs(texts) {
		return domain.LinkValue(texts...), true
	}
	return domain.TextListValue(texts...), true
}

// decodeAttachments extracts URL, filename and the large thumbnail tier
// from attachment objects. Malformed members degrade to empty fields.
func decodeAttachments(items []any) []domain.Attachment {
	atts := make([]domain.Attachment, 0, len(items))

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		att := domain.Attachment{
			URL:      stringMember(obj, "url"),
			Filename: stringMember(obj, "filename"),
		}
		if thumbs, ok := obj["thumbnails"].(map[string]any); ok {
			if large, ok := thumbs["large"].(map[string]any); ok {
				att.ThumbnailURL = stringMember(large, "url")
			}
		}
		if att.URL != "" || att.ThumbnailURL != "" {
			atts = append(atts, att)
		}
	}
	return atts
}

// allRecordIDs reports whether every string has the record ID shape.
func allRecordIDs(texts []string) bool {
	for _, s := range texts {
		if len(s) != recordIDLength || !strings.HasPrefix(s, "rec") {
			return false
		}
	}
	return true
}

// stringMember returns a string member of a JSON object, or "".
func stringMember(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// formatNumber renders a JSON number without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
