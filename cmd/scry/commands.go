package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/termfx/scry/analyzer"
	"github.com/termfx/scry/plugins"
	"github.com/termfx/scry/query"
	"github.com/termfx/scry/queries"
	"github.com/termfx/scry/search"
)

func isKind[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func errorsIs(err, target error) bool {
	return errors.Is(err, target)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// jsonFormatter is the default injected formatter for output_file.
func jsonFormatter(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func projectRoot() string {
	if root := viper.GetString("project_root"); root != "" {
		return root
	}
	cwd, _ := os.Getwd()
	return cwd
}

func newAnalyzeCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Extract the structural element model of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := analyzer.New(plugins.Default(), analyzer.WithCache(0))
			result, err := a.AnalyzeFile(cmd.Context(), args[0], language)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "language tag (detected from extension when omitted)")
	return cmd
}

func newQueryCmd() *cobra.Command {
	var (
		language    string
		key         string
		queryString string
		filter      string
	)
	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Run a named or ad-hoc tree-sitter query against a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := query.NewService(plugins.Default())
			records, err := svc.Execute(cmd.Context(), query.Request{
				Path:        args[0],
				Language:    language,
				Key:         key,
				QueryString: queryString,
				Filter:      filter,
			})
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "language tag (required)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "predefined query key (e.g. functions)")
	cmd.Flags().StringVarP(&queryString, "query-string", "q", "", "ad-hoc tree-sitter query")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "predicate filter (e.g. name=~get.*,public=true)")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		roots         []string
		files         []string
		caseMode      string
		includeGlobs  []string
		excludeGlobs  []string
		fixedStrings  bool
		word          bool
		multiline     bool
		hidden        bool
		noIgnore      bool
		contextBefore int
		contextAfter  int
		maxCount      int
		timeoutMS     int
		totalOnly     bool
		countOnly     bool
		summaryOnly   bool
		groupByFile   bool
		optimizePaths bool
		noParallel    bool
		outputFile    string
		suppress      bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search file contents through ripgrep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cliArgs []string) error {
			args := map[string]any{
				"query":           cliArgs[0],
				"case":            caseMode,
				"enable_parallel": !noParallel,
			}
			if len(roots) > 0 {
				args["roots"] = roots
			}
			if len(files) > 0 {
				args["files"] = files
			}
			if len(includeGlobs) > 0 {
				args["include_globs"] = includeGlobs
			}
			if len(excludeGlobs) > 0 {
				args["exclude_globs"] = excludeGlobs
			}
			for flag, value := range map[string]bool{
				"fixed_strings":      fixedStrings,
				"word":               word,
				"multiline":          multiline,
				"hidden":             hidden,
				"no_ignore":          noIgnore,
				"total_only":         totalOnly,
				"count_only_matches": countOnly,
				"summary_only":       summaryOnly,
				"group_by_file":      groupByFile,
				"optimize_paths":     optimizePaths,
				"suppress_output":    suppress,
			} {
				if value {
					args[flag] = true
				}
			}
			if contextBefore > 0 {
				args["context_before"] = contextBefore
			}
			if contextAfter > 0 {
				args["context_after"] = contextAfter
			}
			if maxCount > 0 {
				args["max_count"] = maxCount
			}
			if timeoutMS > 0 {
				args["timeout_ms"] = timeoutMS
			}
			if outputFile != "" {
				args["output_file"] = outputFile
			}

			engine := &search.Engine{
				ProjectRoot: projectRoot(),
				Formatter:   jsonFormatter,
				OutputDir:   viper.GetString("output_dir"),
			}
			result, err := engine.Search(cmd.Context(), args)
			if err != nil {
				return err
			}
			if total, ok := result.(int); ok {
				fmt.Println(total)
				return nil
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringSliceVarP(&roots, "roots", "r", nil, "directories to search")
	cmd.Flags().StringSliceVar(&files, "files", nil, "specific files to search")
	cmd.Flags().StringVar(&caseMode, "case", "smart", "case mode: smart, insensitive, sensitive")
	cmd.Flags().StringSliceVarP(&includeGlobs, "glob", "g", nil, "include globs")
	cmd.Flags().StringSliceVarP(&excludeGlobs, "exclude", "E", nil, "exclude globs")
	cmd.Flags().BoolVarP(&fixedStrings, "fixed-strings", "F", false, "treat query as a literal")
	cmd.Flags().BoolVarP(&word, "word", "w", false, "match whole words")
	cmd.Flags().BoolVarP(&multiline, "multiline", "U", false, "allow matches spanning lines")
	cmd.Flags().BoolVarP(&hidden, "hidden", "H", false, "search hidden files")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "ignore .gitignore rules")
	cmd.Flags().IntVarP(&contextBefore, "before", "B", 0, "context lines before each match")
	cmd.Flags().IntVarP(&contextAfter, "after", "A", 0, "context lines after each match")
	cmd.Flags().IntVarP(&maxCount, "max-count", "m", 0, "maximum results")
	cmd.Flags().IntVar(&timeoutMS, "timeout-ms", 0, "child process timeout in milliseconds")
	cmd.Flags().BoolVar(&totalOnly, "total-only", false, "print only the total match count")
	cmd.Flags().BoolVarP(&countOnly, "count", "c", false, "per-file match counts")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "summarized top-file view")
	cmd.Flags().BoolVar(&groupByFile, "group", false, "group matches by file")
	cmd.Flags().BoolVar(&optimizePaths, "optimize-paths", false, "shorten paths in results")
	cmd.Flags().BoolVar(&noParallel, "no-parallel", false, "disable parallel root dispatch")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "write formatted response to this file")
	cmd.Flags().BoolVar(&suppress, "suppress-output", false, "with --output-file, return only an acknowledgment")
	return cmd
}

func newFindCmd() *cobra.Command {
	var (
		pattern    string
		roots      []string
		glob       bool
		extensions []string
		types      []string
		exclude    []string
		depth      int
		hidden     bool
		noIgnore   bool
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find files through fd",
		RunE: func(cmd *cobra.Command, cliArgs []string) error {
			if len(roots) == 0 {
				roots = []string{"."}
			}
			args := map[string]any{"roots": roots}
			if pattern != "" {
				args["pattern"] = pattern
			}
			if glob {
				args["glob"] = true
			}
			if hidden {
				args["hidden"] = true
			}
			if noIgnore {
				args["no_ignore"] = true
			}
			if len(extensions) > 0 {
				args["extensions"] = extensions
			}
			if len(types) > 0 {
				args["types"] = types
			}
			if len(exclude) > 0 {
				args["exclude"] = exclude
			}
			if depth > 0 {
				args["depth"] = depth
			}
			if limit > 0 {
				args["limit"] = limit
			}
			engine := &search.Engine{ProjectRoot: projectRoot()}
			result, err := engine.ListFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "filename pattern")
	cmd.Flags().StringSliceVarP(&roots, "roots", "r", nil, "directories to search")
	cmd.Flags().BoolVar(&glob, "glob", false, "treat pattern as a glob")
	cmd.Flags().StringSliceVarP(&extensions, "ext", "e", nil, "file extensions")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "fd type filters (f, d, l, x)")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "E", nil, "exclude patterns")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum directory depth")
	cmd.Flags().BoolVarP(&hidden, "hidden", "H", false, "include hidden files")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "ignore .gitignore rules")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and their query keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := plugins.Default()
			for _, lang := range sortedStrings(registry.Languages()) {
				plugin, _ := registry.Get(lang)
				fmt.Printf("%s (%s)\n", lang, strings.Join(plugin.Extensions(), ", "))
				for _, key := range queries.List(lang) {
					desc, err := queries.Describe(lang, key)
					if err != nil {
						desc = ""
					}
					fmt.Printf("  %-14s %s\n", key, desc)
				}
			}
			return nil
		},
	}
}

func sortedStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
