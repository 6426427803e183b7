package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/bank"
	"github.com/7283111011/FLK2/internal/config"
	"github.com/7283111011/FLK2/internal/logger"
	"github.com/7283111011/FLK2/internal/opentdb"
	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/quiz"
	"github.com/7283111011/FLK2/internal/tui"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type source struct {
	file   string
	url    string
	setID  string
	trivia int
}

func (s source) count() int {
	n := 0
	for _, set := range []bool{s.file != "", s.url != "", s.setID != "", s.trivia > 0} {
		if set {
			n++
		}
	}
	return n
}

// Run parses args, loads a question set and plays it in the terminal.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("quiz-cli", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)

	var (
		src   source
		title string
		save  bool
		list  bool
	)
	flags.StringVarP(&src.file, "file", "f", "", "play a JSON or YAML question file")
	flags.StringVarP(&src.url, "url", "u", "", "play a question document fetched over HTTP")
	flags.StringVarP(&src.setID, "set", "s", "", "play a set stored in the question bank")
	flags.IntVar(&src.trivia, "trivia", 0, "play N questions from OpenTriviaDB")
	flags.StringVar(&title, "title", "", "override the set title")
	flags.BoolVar(&save, "save", false, "store the loaded set in the question bank")
	flags.BoolVar(&list, "list", false, "list sets in the question bank and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  quiz-cli (--file <path> | --url <url> | --set <id> | --trivia <n>) [options]")
		fmt.Fprintln(stderr, "  quiz-cli --list")
		fmt.Fprintln(stderr)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if !list && src.count() != 1 {
		fmt.Fprintln(stderr, "choose exactly one of --file, --url, --set or --trivia")
		flags.Usage()
		return ExitUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return ExitError
	}

	decision, err := resolveUIMode(cfg.Quiz.UI, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}

	log, err := newLogger(cfg, decision.useLive)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return ExitError
	}
	defer func() { _ = log.Sync() }()

	app := &app{cfg: cfg, logger: log, stdout: stdout}
	defer app.close()

	if list {
		if err := app.listSets(ctx); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return ExitError
		}
		return ExitOK
	}

	set, err := app.loadSet(ctx, src)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitError
	}
	if title != "" {
		set.Title = title
	}
	if save && src.setID == "" {
		meta, err := app.saveSet(ctx, set)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Saved %q as %s\n", meta.Title, meta.SetID)
	}

	session, err := quiz.NewSession(set.Questions, quiz.WithExplicitConfirm(cfg.Quiz.ExplicitConfirm))
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitError
	}

	var (
		summary  quiz.Summary
		finished bool
	)
	if decision.useLive {
		summary, finished, err = tui.Run(ctx, session, stdin, stdout, tui.Options{
			Title:   set.Title,
			NoColor: cfg.Quiz.NoColor,
		})
		if err == nil && finished {
			fmt.Fprintf(stdout, "Final score: %s in %s\n", summary, session.Timer().Display())
		}
	} else {
		summary, finished, err = Play(ctx, session, stdin, stdout, PlainOptions{Title: set.Title})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "error:", err)
		return ExitError
	}

	log.Info("quiz ended",
		zap.String("title", set.Title),
		zap.Bool("finished", finished),
		zap.Int("correct", summary.Correct),
		zap.Int("total", summary.Total),
		zap.String("elapsed", session.Timer().Display()),
	)
	return ExitOK
}

// newLogger keeps the full-screen UI free of log lines unless a log file is
// configured.
func newLogger(cfg *config.Config, live bool) (*zap.Logger, error) {
	if live && cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	return logger.New(cfg)
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer

	service   *questionset.Service
	closeBank func()
}

func (a *app) close() {
	if a.closeBank != nil {
		a.closeBank()
	}
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.OpenTDB.Timeout}
}

// sets opens the configured bank on first use.
func (a *app) sets(ctx context.Context) (*questionset.Service, error) {
	if a.service != nil {
		return a.service, nil
	}
	repo, closeFn, err := bank.Open(ctx, a.cfg.Bank, a.logger)
	if err != nil {
		return nil, err
	}
	a.closeBank = closeFn
	fetch := questionset.WithDefaultAmount(opentdb.NewClient(a.httpClient()).FetchQuestions, a.cfg.OpenTDB.Amount)
	a.service = questionset.NewService(repo, fetch, a.logger)
	return a.service, nil
}

func (a *app) loadSet(ctx context.Context, src source) (questionset.Set, error) {
	switch {
	case src.file != "":
		return questionset.LoadFile(src.file)
	case src.url != "":
		return questionset.NewFetcher(a.httpClient()).Fetch(ctx, src.url)
	case src.trivia > 0:
		raw, err := opentdb.NewClient(a.httpClient()).FetchQuestions(ctx, src.trivia)
		if err != nil {
			return questionset.Set{}, fmt.Errorf("fetch trivia: %w", err)
		}
		return questionset.FromOpenTDB(raw)
	default:
		service, err := a.sets(ctx)
		if err != nil {
			return questionset.Set{}, err
		}
		return service.Load(ctx, src.setID)
	}
}

func (a *app) saveSet(ctx context.Context, set questionset.Set) (questionset.SetMetadata, error) {
	service, err := a.sets(ctx)
	if err != nil {
		return questionset.SetMetadata{}, err
	}
	set.SetID = ""
	return service.Import(ctx, set)
}

func (a *app) listSets(ctx context.Context) error {
	service, err := a.sets(ctx)
	if err != nil {
		return err
	}
	sets, err := service.List(ctx, 0)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Fprintln(a.stdout, "No question sets stored.")
		return nil
	}
	for _, set := range sets {
		title := strings.TrimSpace(set.Title)
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(a.stdout, "%s  %-30s %3d questions  %s\n",
			set.SetID, title, set.QuestionCount, set.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
