// Package query executes named or ad-hoc tree-sitter queries against a
// parsed file. Native query execution is tried first; when it compiles
// to nothing or fails, the language plugin's extraction strategy backs
// it up, so a missing or mismatched query pattern degrades instead of
// erroring.
package query

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/parser"
	"github.com/termfx/scry/plugins"
	"github.com/termfx/scry/queries"
	"github.com/termfx/scry/textenc"
)

// Request carries one query invocation. Exactly one of Key or
// QueryString must be set.
type Request struct {
	Path        string
	Language    string
	Key         string
	QueryString string
	Filter      string
}

// Service orchestrates read, parse, query, fallback, and filtering.
type Service struct {
	registry *plugins.Registry
}

// NewService builds a query service over a plugin registry.
func NewService(registry *plugins.Registry) *Service {
	if registry == nil {
		registry = plugins.Default()
	}
	return &Service{registry: registry}
}

// Execute runs a query and returns capture records in tree pre-order.
func (s *Service) Execute(ctx context.Context, req Request) ([]core.CaptureRecord, error) {
	if (req.Key == "") == (req.QueryString == "") {
		return nil, fmt.Errorf("%w: exactly one of key or query string must be provided", core.ErrInvalidQueryRequest)
	}
	language := parser.Canonical(req.Language)
	if !parser.IsSupported(language) {
		return nil, &core.UnknownLanguageError{Language: req.Language}
	}

	var filter *Filter
	if req.Filter != "" {
		var err error
		filter, err = ParseFilter(req.Filter)
		if err != nil {
			return nil, err
		}
	}

	text, _, err := textenc.ReadFileSafe(req.Path)
	if err != nil {
		return nil, err
	}

	result, err := parser.Parse(ctx, []byte(text), language, req.Path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	queryString := req.QueryString
	if req.Key != "" {
		queryString, err = queries.Get(language, req.Key)
		if err != nil {
			return nil, err
		}
	}

	records, ok := s.runNative(result, queryString)
	if !ok || len(records) == 0 {
		records = s.runPluginFallback(result, req.Key)
	}

	if filter != nil {
		records = filter.Apply(records)
	}
	return records, nil
}

// runNative compiles and executes the query against the tree. The
// boolean result reports whether native execution was usable; false
// routes the caller to the plugin fallback.
func (s *Service) runNative(result *core.ParseResult, queryString string) ([]core.CaptureRecord, bool) {
	q, err := sitter.NewQuery([]byte(queryString), result.Language)
	if err != nil {
		slog.Debug("query compile failed, using plugin fallback",
			"language", result.LangName, "error", err)
		return nil, false
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, result.Root())

	var records []core.CaptureRecord
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			node := capture.Node
			if node == nil {
				continue
			}
			records = append(records, core.CaptureRecord{
				CaptureName: q.CaptureNameForId(capture.Index),
				NodeType:    node.Type(),
				StartLine:   int(node.StartPoint().Row) + 1,
				EndLine:     int(node.EndPoint().Row) + 1,
				Content:     result.NodeText(node),
			})
		}
	}
	return records, true
}

// runPluginFallback asks the language plugin to extract elements for
// the key and projects them onto capture records.
func (s *Service) runPluginFallback(result *core.ParseResult, key string) []core.CaptureRecord {
	plugin, ok := s.registry.Get(result.LangName)
	if !ok {
		slog.Warn("no plugin for language, query yields nothing", "language", result.LangName)
		return nil
	}
	if key == "" {
		key = "functions"
	}
	elements := plugin.ExecuteQueryStrategy(result.Root(), result.Source, queries.CanonicalKey(key))
	records := make([]core.CaptureRecord, 0, len(elements))
	for _, el := range elements {
		records = append(records, core.CaptureRecord{
			CaptureName: queries.CanonicalKey(key),
			NodeType:    string(el.Kind),
			StartLine:   el.StartLine,
			EndLine:     el.EndLine,
			Content:     el.RawText,
		})
	}
	return records
}

// AvailableQueries lists the canonical query keys for a language.
func (s *Service) AvailableQueries(language string) []string {
	return queries.List(parser.Canonical(language))
}

// DescribeQuery returns the human description for a query key.
func (s *Service) DescribeQuery(language, key string) (string, error) {
	return queries.Describe(parser.Canonical(language), key)
}
