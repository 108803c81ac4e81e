package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/danielpatrickdp/persona-harness/internal/replay"
	"github.com/danielpatrickdp/persona-harness/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to persona_harness.db; omit to export the built-in cases with no replies")
	runID := flag.String("run", "", "run to export (default: most recent run)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --out path/to/fixture.json [--db path/to/db] [--run id]")
		os.Exit(2)
	}

	if err := run(*dbPath, *runID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath, runID, outPath string) error {
	if dbPath == "" {
		f := replay.BuiltinFixture("built-in cases, no recorded replies")
		if err := replay.WriteFixture(outPath, f); err != nil {
			return err
		}
		fmt.Printf("Wrote %d cases and %d golden turns to %s\n", len(f.Cases), len(f.Golden), outPath)
		return nil
	}

	store, err := state.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	f, err := export(store, runID)
	if err != nil {
		return err
	}
	if err := replay.WriteFixture(outPath, f); err != nil {
		return err
	}
	fmt.Printf("Wrote fixture with %d recorded replies to %s\n", f.Replies(), outPath)
	return nil
}

// export builds a fixture from a stored run. Stored case results are matched
// to the built-in cases by ID and golden results to the scripted turns by
// turn number, then recorded under the conversation each reply answered.
func export(store *state.Store, runID string) (*replay.Fixture, error) {
	if runID == "" {
		runs, err := store.ListRuns(1)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, fmt.Errorf("no runs found")
		}
		runID = runs[0].RunID
	}
	run, err := store.GetRun(runID)
	if err != nil {
		return nil, err
	}
	records, err := store.CaseResults(run.RunID, "")
	if err != nil {
		return nil, err
	}

	f := replay.BuiltinFixture(fmt.Sprintf("exported from run %s (%s)", run.RunID, run.Generator))
	byID := make(map[string]replay.TestCase, len(f.Cases))
	for _, tc := range f.Cases {
		byID[tc.ID] = tc
	}

	var cases []replay.CaseResult
	golden := make([]replay.GoldenTurnResult, len(f.Golden))
	for i, turn := range f.Golden {
		golden[i] = replay.GoldenTurnResult{Turn: turn, Err: "not recorded"}
	}
	for _, rec := range records {
		switch rec.Kind {
		case state.KindCase:
			tc, ok := byID[rec.CaseID]
			if !ok {
				log.Printf("[EXPORT] skipping unknown case %s", rec.CaseID)
				continue
			}
			cases = append(cases, replay.CaseResult{Case: tc, Response: rec.Response, Err: rec.Error})
		case state.KindGolden:
			n, err := strconv.Atoi(rec.CaseID)
			if err != nil || n < 1 || n > len(golden) {
				log.Printf("[EXPORT] skipping unknown golden turn %s", rec.CaseID)
				continue
			}
			golden[n-1].Response, golden[n-1].Err = rec.Response, rec.Error
		}
	}

	f.Record(cases, golden)
	return f, nil
}

// #endregion extract
