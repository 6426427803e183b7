package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/config"
	"github.com/7283111011/FLK2/internal/logger"
	"github.com/7283111011/FLK2/internal/questionset"
)

// RunImport stores question files, URLs and OpenTriviaDB batches in the
// configured question bank.
func RunImport(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("quiz-import", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)

	var (
		trivia int
		title  string
	)
	flags.IntVar(&trivia, "trivia", 0, "also import N questions from OpenTriviaDB")
	flags.StringVar(&title, "title", "", "title for every imported set")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  quiz-import [options] <file-or-url>... [--trivia <n>]")
		fmt.Fprintln(stderr)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	sources := flags.Args()
	if len(sources) == 0 && trivia <= 0 {
		flags.Usage()
		return ExitUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return ExitError
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return ExitError
	}
	defer func() { _ = log.Sync() }()

	app := &app{cfg: cfg, logger: log, stdout: stdout}
	defer app.close()

	service, err := app.sets(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitError
	}

	failed := 0
	for _, arg := range sources {
		var src source
		if isURL(arg) {
			src.url = arg
		} else {
			src.file = arg
		}
		if err := app.importOne(ctx, service, src, title); err != nil {
			failed++
			log.Error("import failed", zap.String("source", arg), zap.Error(err))
			fmt.Fprintf(stderr, "%s: %v\n", arg, err)
		}
	}
	if trivia > 0 {
		meta, err := service.ImportOpenTDB(ctx, title, trivia)
		if err != nil {
			failed++
			fmt.Fprintf(stderr, "opentdb: %v\n", err)
		} else {
			printImported(stdout, meta)
		}
	}

	if failed > 0 {
		return ExitError
	}
	return ExitOK
}

func (a *app) importOne(ctx context.Context, service *questionset.Service, src source, title string) error {
	set, err := a.loadSet(ctx, src)
	if err != nil {
		return err
	}
	if title != "" {
		set.Title = title
	}
	meta, err := service.Import(ctx, set)
	if err != nil {
		return err
	}
	printImported(a.stdout, meta)
	return nil
}

func printImported(out io.Writer, meta questionset.SetMetadata) {
	fmt.Fprintf(out, "Imported %s %q (%d questions)\n", meta.SetID, meta.Title, meta.QuestionCount)
}

func isURL(source string) bool {
	parsed, err := url.Parse(source)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}
