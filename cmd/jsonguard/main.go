package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/i18n"
	"github.com/reoring/jsonguard/report"
	"github.com/reoring/jsonguard/source/gojson"
)

// exit codes
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "validate":
		return validateCmd(args[1:], stdout, stderr)
	case "check":
		return checkCmd(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "jsonguard CLI\n\nUsage:\n  jsonguard validate -schema schema.json [-mode full|fast] [-format text|json] [-j N] file.json...\n  jsonguard check [-schema] schema.json\n\nNotes:\n  - validate exits 1 when any document is invalid and 2 on usage or schema load errors.\n  - check exits 1 when the schema cannot be loaded.")
}

// common holds the flags shared by every subcommand.
type common struct {
	schema       string
	driver       string
	lang         string
	dialect      string
	formatAssert bool
	verbose      bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.schema, "schema", "", "schema location (path or URI)")
	fs.StringVar(&c.driver, "driver", "encoding/json", "JSON driver: encoding/json or go-json")
	fs.StringVar(&c.lang, "lang", "en", "message language (BCP 47 tag)")
	fs.StringVar(&c.dialect, "dialect", "", "default dialect for schemas without $schema")
	fs.BoolVar(&c.formatAssert, "format-assert", false, "treat format as an assertion")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose logs")
}

// setup applies global settings and returns the logger.
func (c *common) setup(stderr io.Writer) (*slog.Logger, error) {
	switch c.driver {
	case "encoding/json", "":
		jsonguard.UseDefaultJSONDriver()
	case "go-json":
		jsonguard.SetJSONDriver(gojson.Driver())
	default:
		return nil, fmt.Errorf("unknown driver %q", c.driver)
	}
	i18n.SetLanguage(c.lang)
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), nil
}

func (c *common) load(ctx context.Context, logger *slog.Logger) (*jsonguard.Schema, error) {
	opts := []jsonguard.LoadOption{
		jsonguard.WithLogger(logger),
		jsonguard.WithFormatAssertion(c.formatAssert),
	}
	if c.dialect != "" {
		opts = append(opts, jsonguard.WithDefaultDialect(c.dialect))
	}
	return jsonguard.Load(ctx, c.schema, opts...)
}

func parseSeverity(s string) (jsonguard.Severity, error) {
	switch strings.ToLower(s) {
	case "ignore", "":
		return jsonguard.Ignore, nil
	case "warn":
		return jsonguard.Warn, nil
	case "error":
		return jsonguard.Error, nil
	}
	return jsonguard.Ignore, fmt.Errorf("unknown duplicate-key policy %q", s)
}

type outcome struct {
	file    string
	verdict jsonguard.Verdict
	elapsed time.Duration
}

func validateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		c        common
		mode     string
		format   string
		dup      string
		maxBytes int64
		workers  int
	)
	c.register(fs)
	fs.StringVar(&mode, "mode", "full", "evaluation mode: full or fast")
	fs.StringVar(&format, "format", "text", "report format: text or json")
	fs.StringVar(&dup, "dup", "error", "duplicate keys in documents: ignore, warn or error")
	fs.Int64Var(&maxBytes, "max-bytes", 0, "reject documents larger than this many bytes (0: no limit)")
	fs.IntVar(&workers, "j", 4, "number of documents validated concurrently")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	files := fs.Args()
	if c.schema == "" || len(files) == 0 || (format != "text" && format != "json") {
		fs.Usage()
		return exitUsage
	}
	m, err := jsonguard.ParseMode(mode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	sev, err := parseSeverity(dup)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logger, err := c.setup(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	defer jsonguard.UseDefaultJSONDriver()

	ctx := context.Background()
	s, err := c.load(ctx, logger)
	if err != nil {
		fmt.Fprintf(stderr, "jsonguard: %v\n", err)
		return exitUsage
	}
	logger.Info("schema loaded", "location", s.Location(), "dialect", s.DialectName(), "elapsed_ms", ms(s.LoadTime()))

	results := make([]outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			opt := jsonguard.DecodeOpt{
				Strictness: jsonguard.Strictness{OnDuplicateKey: sev},
				MaxBytes:   maxBytes,
				OnWarning: func(v jsonguard.Violation) {
					logger.Warn(v.Message, "file", f, "code", v.Code, "path", v.InstancePath)
				},
			}
			o, err := validateFile(s, f, m, opt)
			if err != nil {
				return err
			}
			logger.Info("validated", "file", f, "valid", o.verdict.Valid, "violations", len(o.verdict.Violations), "elapsed_ms", ms(o.elapsed))
			results[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "jsonguard: %v\n", err)
		return exitUsage
	}

	code := exitOK
	for _, o := range results {
		if !o.verdict.Valid {
			code = exitInvalid
		}
		if err := write(stdout, format, o); err != nil {
			fmt.Fprintf(stderr, "jsonguard: %v\n", err)
			return exitUsage
		}
	}
	return code
}

// validateFile decodes and validates one document. Documents that are not
// acceptable JSON yield an invalid verdict carrying the decode violations.
func validateFile(s *jsonguard.Schema, path string, m jsonguard.Mode, opt jsonguard.DecodeOpt) (outcome, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return outcome{}, err
	}
	defer f.Close()
	vd, err := s.ValidateReader(f, m, opt)
	if err != nil {
		vs, ok := jsonguard.AsViolations(err)
		if !ok {
			return outcome{}, fmt.Errorf("%s: %w", path, err)
		}
		vd = jsonguard.Verdict{Valid: false, Violations: vs}
	}
	return outcome{file: path, verdict: vd, elapsed: time.Since(start)}, nil
}

func write(w io.Writer, format string, o outcome) error {
	if format == "json" {
		return report.WriteDocument(w, report.NewDocument(o.file, o.verdict))
	}
	if _, err := fmt.Fprintf(w, "%s: ", o.file); err != nil {
		return err
	}
	return report.Text(w, o.verdict)
}

func checkCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if c.schema == "" && fs.NArg() == 1 {
		c.schema = fs.Arg(0)
	}
	if c.schema == "" {
		fs.Usage()
		return exitUsage
	}
	logger, err := c.setup(stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	defer jsonguard.UseDefaultJSONDriver()
	s, err := c.load(context.Background(), logger)
	if err != nil {
		var se *jsonguard.SchemaError
		if errors.As(err, &se) && se.Keyword != "" {
			fmt.Fprintf(stderr, "jsonguard: keyword %s: %v\n", se.Keyword, err)
		} else {
			fmt.Fprintf(stderr, "jsonguard: %v\n", err)
		}
		return exitInvalid
	}
	fmt.Fprintf(stdout, "location:  %s\n", s.Location())
	fmt.Fprintf(stdout, "dialect:   %s\n", s.DialectName())
	fmt.Fprintf(stdout, "documents: %d\n", s.Documents())
	fmt.Fprintf(stdout, "nodes:     %d\n", s.Nodes())
	fmt.Fprintf(stdout, "load:      %.3fms\n", ms(s.LoadTime()))
	return exitOK
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
