package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/cache"
	"github.com/ZaguanLabs/codelai/internal/app"
	"github.com/ZaguanLabs/codelai/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	lang       string
	dict       string
	jsonOutput bool
	quiet      bool
	noBuiltins bool
	cacheFile  string
}

// input is one snippet read from a file or stdin.
type input struct {
	name string
	code string
	hint string // From the file extension
}

// fileResult is one entry of the --json output.
type fileResult struct {
	File string `json:"file"`
	*codelai.Result
}

func newTranslateCmd(global *globalOptions) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [files...]",
		Short: "Translate files, or stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), global, opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.lang, "lang", "", "Language hint for every input (default: from extension, then detection)")
	f.StringVar(&opts.dict, "dict", "", "Dictionary file (YAML or JSON); overrides the configured source")
	f.BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the summary and logs")
	f.BoolVar(&opts.noBuiltins, "no-builtins", false, "Do not merge the built-in vocabulary")
	f.StringVar(&opts.cacheFile, "cache-file", "", "Load results from and save them to this cache export")
	return cmd
}

func runTranslate(ctx context.Context, global *globalOptions, opts *translateOptions, files []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(global.configPath)
	if err != nil {
		return err
	}
	if opts.dict != "" {
		cfg.Dictionary.Source = config.SourceFile
		cfg.Dictionary.Path = opts.dict
	}
	if opts.noBuiltins {
		cfg.Dictionary.Builtins = false
	}
	if opts.cacheFile != "" && cfg.Cache.Backend == config.CacheNone {
		cfg.Cache.Backend = config.CacheMemory
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logOut := stderr
	if opts.quiet {
		logOut = io.Discard
	}
	logger := app.NewLogger(cfg.Log, logOut)

	inputs, err := readInputs(files)
	if err != nil {
		return err
	}

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.cacheFile != "" {
		if err := loadCacheFile(ctx, a.Cache, opts.cacheFile, logger); err != nil {
			return err
		}
	}

	reqs := make([]codelai.Request, len(inputs))
	for i, in := range inputs {
		hint := opts.lang
		if hint == "" {
			hint = in.hint
		}
		reqs[i] = codelai.Request{Code: in.code, Language: hint}
	}

	start := time.Now()
	results, err := a.Translator.TranslateAll(ctx, reqs)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	if opts.cacheFile != "" {
		md := map[string]string{"version": codelai.FullVersion()}
		if err := cache.NewExporter(a.Cache).ExportToFile(ctx, opts.cacheFile, md); err != nil {
			return fmt.Errorf("saving cache file: %w", err)
		}
	}

	if opts.jsonOutput {
		if err := writeJSON(stdout, inputs, results); err != nil {
			return err
		}
	} else {
		writeText(stdout, inputs, results)
	}

	if !opts.quiet {
		writeSummary(stderr, results, elapsed)
	}
	return nil
}

// readInputs reads every file, or stdin when files is empty.
func readInputs(files []string) ([]input, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []input{{name: "stdin", code: string(data)}}, nil
	}

	inputs := make([]input, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		inputs = append(inputs, input{
			name: path,
			code: string(data),
			hint: codelai.LanguageForFile(filepath.Base(path)),
		})
	}
	return inputs, nil
}

func loadCacheFile(ctx context.Context, c cache.Cache, path string, logger *slog.Logger) error {
	res, err := cache.NewImporter(c).ImportFromFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading cache file: %w", err)
	}
	logger.Debug("cache file loaded",
		slog.String("path", path),
		slog.Int("imported", res.Imported),
		slog.Int("failed", res.Failed),
	)
	return nil
}

func writeJSON(w io.Writer, inputs []input, results []*codelai.Result) error {
	out := make([]fileResult, len(results))
	for i, res := range results {
		out[i] = fileResult{File: inputs[i].name, Result: res}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(out) == 1 {
		return enc.Encode(out[0])
	}
	return enc.Encode(out)
}

// writeText prints the translated code; several files are separated by
// "==> name <==" headers.
func writeText(w io.Writer, inputs []input, results []*codelai.Result) {
	if len(results) == 1 {
		fmt.Fprint(w, results[0].Code)
		return
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "==> %s <==\n", inputs[i].name)
		fmt.Fprint(w, res.Code)
	}
}

func writeSummary(w io.Writer, results []*codelai.Result, elapsed time.Duration) {
	var strs, comments, fallbacks, segments int
	for _, res := range results {
		strs += res.StringReplacements
		comments += res.CommentReplacements
		segments += len(res.Segments)
		if res.UsedFallback {
			fallbacks++
		}
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "\n%s %d input(s) in %v\n", green("Done:"), len(results), elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Strings:    %d\n", strs)
	fmt.Fprintf(w, "  Comments:   %d\n", comments)
	fmt.Fprintf(w, "  Segments:   %d\n", segments)
	if fallbacks > 0 {
		fmt.Fprintf(w, "  Fallback:   %s\n", yellow(fallbacks))
	}
}
