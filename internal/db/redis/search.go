package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/datetime"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/filter"
)

const defaultLimit = 10

// Search runs q via FT.SEARCH and decodes each hit's JSON document.
func (s *Store) Search(ctx context.Context, index string, q *db.Query) (*db.SearchResult, error) {
	is, err := s.schemaFor(ctx, index)
	if err != nil {
		return nil, err
	}

	queryStr, err := is.buildQuery(q)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	scored := len(q.Relevance) > 0

	args := []string{index, queryStr}
	if scored {
		args = append(args, "WITHSCORES")
	}
	args = append(args,
		"RETURN", "1", "$",
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	var res *db.SearchResult
	if scored {
		res, err = parseScoredResult(raw)
	} else {
		res, err = parseListResult(raw)
	}
	if err != nil {
		return nil, err
	}

	prefix := s.docPrefix(index)
	for i := range res.Entries {
		e := &res.Entries[i]
		e.ID = strings.TrimPrefix(e.ID, prefix)
		if e.Fields != nil {
			e.Fields = is.fromEngine(e.Fields)
		}
	}
	return res, nil
}

// --- Result parsing ---

// parseScoredResult reads the 3-stride WITHSCORES reply: [total, key1, score1, fields1, ...].
func parseScoredResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	total, err := parseTotal(raw)
	if err != nil || total == 0 {
		return &db.SearchResult{}, err
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		doc, err := decodeDocument(fields)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		entries = append(entries, db.SearchEntry{ID: key, Score: score, Fields: doc})
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

// parseListResult reads the 2-stride reply: [total, key1, fields1, ...].
func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	total, err := parseTotal(raw)
	if err != nil || total == 0 {
		return &db.SearchResult{}, err
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		doc, err := decodeDocument(fields)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		entries = append(entries, db.SearchEntry{ID: key, Fields: doc})
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

func parseTotal(raw []rueidis.RedisMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse total: %w", err)
	}
	return int(total), nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// decodeDocument unmarshals the "$" field returned for JSON documents.
func decodeDocument(fields []rueidis.RedisMessage) (map[string]any, error) {
	raw, ok := parseFieldPairs(fields)["$"]
	if !ok {
		return nil, nil
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// --- Query building ---

// buildQuery renders the filter and relevance clauses as one FT.SEARCH query string.
func (is *indexSchema) buildQuery(q *db.Query) (string, error) {
	if q.IsMatchAll() {
		return "*", nil
	}

	var parts []string
	if !q.Filter.IsEmpty() {
		p, err := is.buildFilter(q.Filter)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	for _, r := range q.Relevance {
		p, err := is.buildFilter(r)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " "), nil
}

// buildFilter translates a filter.Expression into FT.SEARCH query syntax.
func (is *indexSchema) buildFilter(expr filter.Expression) (string, error) {
	switch expr.Kind() {
	case filter.KindNone:
		return "*", nil
	case filter.KindAnd, filter.KindOr:
		children := expr.Children()
		parts := make([]string, 0, len(children))
		for _, c := range children {
			p, err := is.buildFilter(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, p)
		}
		sep := " "
		if expr.Kind() == filter.KindOr {
			sep = " | "
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	}

	lf, ok := is.leaves[expr.Field()]
	if !ok {
		return "", fmt.Errorf("field %q is not in the index schema", expr.Field())
	}

	switch expr.Kind() {
	case filter.KindTerm:
		return buildTerm(lf, expr.Value())
	case filter.KindPrefix:
		return fmt.Sprintf("@%s:{%s*}", lf.attr, tagEscaper.Replace(fmt.Sprint(expr.Value()))), nil
	case filter.KindRange:
		return buildRange(lf, expr.Op(), expr.Value())
	case filter.KindText:
		return fmt.Sprintf("@%s:(%s)", lf.attr, escapeQuery(fmt.Sprint(expr.Value()))), nil
	default:
		return "", fmt.Errorf("unsupported filter kind %s", expr.Kind())
	}
}

func buildTerm(lf leaf, value any) (string, error) {
	switch lf.kind {
	case leafNumeric, leafDate:
		n, err := numericValue(lf, value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("@%s:[%s %s]", lf.attr, n, n), nil
	case leafText:
		return fmt.Sprintf("@%s:(%s)", lf.attr, escapeQuery(fmt.Sprint(value))), nil
	default:
		return buildTagFilter(lf.attr, fmt.Sprint(value)), nil
	}
}

func buildRange(lf leaf, op filter.Op, value any) (string, error) {
	n, err := numericValue(lf, value)
	if err != nil {
		return "", err
	}

	minBound, maxBound := "-inf", "+inf"
	switch op {
	case filter.GT:
		minBound = "(" + n
	case filter.GTE:
		minBound = n
	case filter.LT:
		maxBound = "(" + n
	case filter.LTE:
		maxBound = n
	default:
		return "", fmt.Errorf("unknown range operator %q", op)
	}
	return fmt.Sprintf("@%s:[%s %s]", lf.attr, minBound, maxBound), nil
}

// numericValue formats value for a NUMERIC field; dates compare as Unix seconds.
func numericValue(lf leaf, value any) (string, error) {
	if lf.kind == leafDate {
		t, ok := datetime.ToTime(value)
		if !ok {
			return "", fmt.Errorf("field %s: unparsable date %v", lf.attr, value)
		}
		return strconv.FormatInt(t.Unix(), 10), nil
	}

	switch x := value.(type) {
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case string:
		if _, err := strconv.ParseFloat(x, 64); err != nil {
			return "", fmt.Errorf("field %s: not a number %q", lf.attr, x)
		}
		return x, nil
	}
	return "", fmt.Errorf("field %s: not a number %v", lf.attr, value)
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"/", "\\/",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
