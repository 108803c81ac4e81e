package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-harness/internal/bus"
	"github.com/danielpatrickdp/persona-harness/internal/category"
	"github.com/danielpatrickdp/persona-harness/internal/codec"
	"github.com/danielpatrickdp/persona-harness/internal/config"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/interior"
	"github.com/danielpatrickdp/persona-harness/internal/logging"
	"github.com/danielpatrickdp/persona-harness/internal/orchestrator"
	"github.com/danielpatrickdp/persona-harness/internal/projection"
	"github.com/danielpatrickdp/persona-harness/internal/replay"
	"github.com/danielpatrickdp/persona-harness/internal/state"
)

// errRegression makes the process exit 1 without printing an error line.
var errRegression = errors.New("regressions detected")

// #region flags

var (
	configPath  string
	fixturePath string
	depthFlag   string
	topicsFlag  []string
	noStore     bool
	jsonOut     bool
	devlogPath  string
	devlogVer   int
	recordPath  string
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Regression harness for the persona prompt",
	Long: `replay runs the built-in test cases and the scripted golden conversation
against the configured generator, scores every reply with the three gates and
reports named regressions.

Commands:
  run       - all cases plus the golden conversation
  golden    - the golden conversation only
  prompt    - score a single user message
  coverage  - dimension coverage of the built-in cases
  classify  - show the category of a message`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "TOML config file layered over the environment")
	pf.StringVar(&fixturePath, "fixture", "", "replay recorded responses from a fixture instead of calling a generator")
	pf.StringVar(&depthFlag, "depth", "", "conversational depth (casual, reflective, profound, mind-bending)")
	pf.StringSliceVar(&topicsFlag, "topics", nil, "comma-separated topic focus")

	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist the run to SQLite")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	runCmd.Flags().StringVar(&devlogPath, "devlog", "", "write a devlog entry for this run to the given path")
	runCmd.Flags().StringVar(&recordPath, "record", "", "write the replies of this run to a fixture for offline replay")
	runCmd.Flags().IntVar(&devlogVer, "devlog-version", 1, "study loop version recorded in the devlog entry")
	goldenCmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")

	rootCmd.AddCommand(runCmd, goldenCmd, promptCmd, coverageCmd, classifyCmd)
}

// #endregion flags

// #region setup

// env is everything a command needs to generate and score.
type env struct {
	cfg     config.Config
	harness *replay.Harness
	fixture *replay.Fixture
	label   string
	close   func() error
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if configPath != "" {
		if err := config.LoadFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newEnv(cfg, logging.Setup(cfg.LogFile), envOptions{
		depth:   depthFlag,
		topics:  topicsFlag,
		fixture: fixturePath,
	})
}

// envOptions are the flag values newEnv reads.
type envOptions struct {
	depth   string
	topics  []string
	fixture string
}

// newEnv builds the harness. logCloser is closed by env.close, or right away
// when newEnv fails.
func newEnv(cfg config.Config, logCloser io.Closer, opts envOptions) (_ *env, err error) {
	e := &env{cfg: cfg, close: logCloser.Close}
	defer func() {
		if err != nil {
			e.close()
		}
	}()

	depth, err := projection.ParseDepth(opts.depth)
	if err != nil {
		return nil, err
	}
	topics, err := projection.ParseTopics(opts.topics)
	if err != nil {
		return nil, err
	}

	var gen, golden codec.Generator
	if opts.fixture != "" {
		f, err := replay.LoadFixture(opts.fixture)
		if err != nil {
			return nil, err
		}
		e.fixture = f
		e.label = "fixture:" + opts.fixture
		gen, golden = f.Generator(), f.GoldenGenerator()
	} else {
		g, closeGen, err := cfg.NewGenerator()
		if err != nil {
			return nil, err
		}
		gen, e.label = g, cfg.GeneratorLabel()
		e.close = func() error {
			genErr := closeGen()
			logCloser.Close()
			return genErr
		}
	}

	ocfg := orchestrator.DefaultConfig()
	ocfg.StyleDisabled = cfg.PersonaDisabled
	orch, err := orchestrator.NewOrchestrator(nil, gen, ocfg)
	if err != nil {
		return nil, err
	}
	e.harness = &replay.Harness{
		Generator:    gen,
		SystemPrompt: orch.SystemPrompt(depth, topics),
		Golden:       golden,
		Options:      replay.Options{Workers: cfg.Workers},
	}
	return e, nil
}

func (e *env) cases() []replay.TestCase {
	if e.fixture != nil {
		return e.fixture.Cases
	}
	return replay.TestCases()
}

func (e *env) golden() []replay.GoldenTurn {
	if e.fixture != nil {
		return e.fixture.Golden
	}
	return replay.GoldenConversation()
}

// #endregion setup

// #region run

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every case and the golden conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := cmd.Context()

		fmt.Printf("Generator: %s\nTest cases: %d\n\n", e.label, len(e.cases()))
		cases := e.harness.RunCases(ctx, e.cases())
		printCases(cases)
		golden := e.harness.RunGolden(ctx, e.golden())
		printGolden(golden)

		report := replay.Summarize(cases, golden, e.cfg.Thresholds)
		runID := persist(e, cases, golden, report)
		entry := report.Devlog(devlogVer, time.Now())
		publish(ctx, e.cfg, runID, e.label, report, &entry)
		if devlogPath != "" {
			if err := writeJSONFile(devlogPath, entry); err != nil {
				return err
			}
		}
		if recordPath != "" {
			f := replay.BuiltinFixture("recorded from " + e.label)
			f.Cases, f.Golden = e.cases(), e.golden()
			f.Record(cases, golden)
			if err := replay.WriteFixture(recordPath, f); err != nil {
				return err
			}
			fmt.Printf("Recorded %d replies to %s\n", f.Replies(), recordPath)
		}
		return finish(report)
	},
}

var goldenCmd = &cobra.Command{
	Use:   "golden",
	Short: "Run the golden conversation only",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		golden := e.harness.RunGolden(cmd.Context(), e.golden())
		printGolden(golden)
		return reportGolden(os.Stdout, golden, e.cfg.Thresholds, jsonOut)
	},
}

// reportGolden prints the golden tally, and the JSON summary when asked,
// before returning errRegression for too many failed turns.
func reportGolden(w io.Writer, golden []replay.GoldenTurnResult, th replay.Thresholds, asJSON bool) error {
	report := replay.Summarize(nil, golden, th)
	failed := report.Golden.Failed > th.MaxGoldenFails
	if failed {
		fmt.Fprintf(w, "\nGolden conversation: %d failures (max %d)\n", report.Golden.Failed, th.MaxGoldenFails)
	} else {
		fmt.Fprintf(w, "\nGolden conversation: %d/%d passed\n", report.Golden.Passed, len(golden))
	}
	if asJSON {
		if err := writeJSON(w, report.Golden); err != nil {
			return err
		}
	}
	if failed {
		return errRegression
	}
	return nil
}

func persist(e *env, cases []replay.CaseResult, golden []replay.GoldenTurnResult, report replay.Report) string {
	if noStore {
		return ""
	}
	store, err := state.NewStore(e.cfg.DBPath)
	if err != nil {
		log.Printf("[HARNESS] run not stored: %v", err)
		return ""
	}
	defer store.Close()

	run, err := store.BeginRun(e.label)
	if err != nil {
		log.Printf("[HARNESS] run not stored: %v", err)
		return ""
	}
	for _, c := range cases {
		if err := store.RecordCase(run.RunID, c); err != nil {
			log.Printf("[HARNESS] %v", err)
		}
	}
	for i, g := range golden {
		if err := store.RecordGoldenTurn(run.RunID, i+1, g); err != nil {
			log.Printf("[HARNESS] %v", err)
		}
	}
	if err := store.FinishRun(run.RunID, report); err != nil {
		log.Printf("[HARNESS] %v", err)
	}
	fmt.Printf("Stored run %s in %s\n", run.RunID, e.cfg.DBPath)
	return run.RunID
}

func publish(ctx context.Context, cfg config.Config, runID, label string, report replay.Report, entry *replay.DevlogEntry) {
	pub, err := bus.Connect(ctx, cfg.NATSURL, cfg.NATSToken)
	if err != nil {
		log.Printf("[BUS] %v", err)
		return
	}
	defer pub.Close()
	if err := pub.PublishReport(bus.ReportEvent{RunID: runID, Generator: label, Report: report, Devlog: entry}); err != nil {
		log.Printf("[BUS] %v", err)
	}
}

func finish(report replay.Report) error {
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println("\nSUMMARY")
	fmt.Println()
	fmt.Print(report.Format())
	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	}
	if report.Status != replay.StatusPass {
		return errRegression
	}
	return nil
}

// #endregion run

// #region single

var promptCmd = &cobra.Command{
	Use:   "prompt <text>",
	Short: "Generate and score a reply to one message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		history := []dialogue.Message{dialogue.User(args[0])}
		system := e.harness.SystemPrompt(history)
		raw, err := e.harness.Generator.Generate(cmd.Context(), system, history)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		response := interior.Strip(raw)
		fmt.Println(eval.FormatReport(args[0], response, eval.Score(args[0], response)))
		return nil
	},
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show how many cases cover each dimension",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cases := replay.TestCases()
		if fixturePath != "" {
			f, err := replay.LoadFixture(fixturePath)
			if err != nil {
				return err
			}
			cases = f.Cases
		}
		fmt.Println("DIMENSION COVERAGE:")
		for _, d := range replay.DimensionCoverage(cases) {
			fmt.Printf("  %s: %d test cases\n", d.Dimension, d.Cases)
		}
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Show the category a message falls into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := category.Classify(args[0])
		fmt.Printf("category=%s confidence=%.1f keywords=%s\n", m.Category, m.Confidence, strings.Join(m.Keywords, ","))
		return nil
	},
}

// #endregion single

// #region output

func printCases(results []replay.CaseResult) {
	for _, r := range results {
		fmt.Println(strings.Repeat("─", 70))
		fmt.Printf("INPUT: %q\nCONTEXT: %s\nDIMENSIONS: %s\n\n", r.Case.Input, r.Case.Context, strings.Join(r.Case.Dimensions, ", "))
		if r.Score == nil {
			fmt.Printf("Error: %s\n\n", r.Err)
			continue
		}
		fmt.Println(eval.FormatReport(r.Case.Input, r.Response, *r.Score))
		fmt.Println()
	}
}

func printGolden(results []replay.GoldenTurnResult) {
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println("GOLDEN CONVERSATION")
	for i, r := range results {
		mark := "PASS"
		switch {
		case r.Err != "":
			mark = "ERROR " + r.Err
		case !r.Passed:
			mark = "FAIL " + strings.Join(r.FailedChecks, ", ")
		}
		fmt.Printf("  %d. %q -> %s\n", i+1, r.Turn.Content, mark)
	}
	fmt.Println()
}

func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal devlog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write devlog %s: %w", path, err)
	}
	return nil
}

// #endregion output
