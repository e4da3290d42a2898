package elasticsearch

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// Content index field names.
const (
	fieldItemID     = "item_id"
	fieldPath       = "path"
	fieldLanguage   = "language"
	fieldTemplateID = "template_id"
)

// buildContentQuery renders q as a search body. Results are sorted by path
// with item_id as tiebreaker so search_after cursors are stable.
func buildContentQuery(q domain.ContentQuery) (map[string]any, error) {
	filters := make([]any, 0, 3+len(q.Fields))

	if q.Language != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{fieldLanguage: strings.ToLower(q.Language)},
		})
	}
	if q.PathPrefix != "" {
		filters = append(filters, map[string]any{
			"prefix": map[string]any{fieldPath: q.PathPrefix},
		})
	}
	if len(q.TemplateIDs) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{fieldTemplateID: q.TemplateIDs},
		})
	}

	keys := make([]string, 0, len(q.Fields))
	for k := range q.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		filters = append(filters, map[string]any{
			"term": map[string]any{k: q.Fields[k]},
		})
	}

	body := map[string]any{
		"size": q.Size,
		"query": map[string]any{
			"bool": map[string]any{"filter": filters},
		},
		"sort": []any{
			map[string]any{fieldPath: "asc"},
			map[string]any{fieldItemID: "asc"},
		},
		"track_total_hits": true,
	}

	if q.After != nil && *q.After != "" {
		after, err := decodeCursor(*q.After)
		if err != nil {
			return nil, err
		}
		body["search_after"] = after
	}

	return body, nil
}

func encodeCursor(sortValues []json.RawMessage) (string, error) {
	raw, err := json.Marshal(sortValues)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) ([]json.RawMessage, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var values []json.RawMessage
	if err = json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	return values, nil
}
