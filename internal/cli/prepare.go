package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/getcook-dev/cook/internal/config"
	"github.com/getcook-dev/cook/internal/engine"
	"github.com/getcook-dev/cook/internal/history"
	"github.com/getcook-dev/cook/internal/logging"
)

// prepare is the default command path: load the cookbook, pick the main
// recipe, and hand the graph to the engine.
func prepare(mainName string) error {
	if maxCooks <= 0 {
		return fmt.Errorf("-c requires a positive integer — usage: %s", rootUsage)
	}

	cb, g, err := loadCookbook()
	if err != nil {
		return err
	}

	if mainName == "" {
		mainName = cb.Recipes[0].Name
	}
	if _, ok := g.Lookup(mainName); !ok {
		return fmt.Errorf("main recipe %q not found in cookbook %q", mainName, cookbookPath)
	}
	log.Debug("loaded cookbook", "name", cb.Name, "recipes", len(cb.Recipes), "main", mainName, "cooks", maxCooks)

	if err := config.EnsureDirs(cb.Name); err != nil {
		return fmt.Errorf("%s", friendlyError(err))
	}

	rr := history.NewRunRecord(cb.Name, mainName, maxCooks)

	var plog *logging.Logger
	if verbosity == 0 {
		plog, err = logging.New(cb.Name, rr.RunID, logging.FileOnly())
	} else {
		plog, err = logging.New(cb.Name, rr.RunID)
	}
	if err != nil {
		return fmt.Errorf("%s", friendlyError(err))
	}
	defer func() { _ = plog.Close() }()

	if err := logging.RotateLogs(cb.Name); err != nil {
		log.Warn("log rotation failed", "err", err)
	}
	if err := history.Rotate(cb.Name, rr.RunID); err != nil {
		log.Warn("history rotation failed", "err", err)
	}

	plog.Log("preparing recipe %q from cookbook %q (run %s, cooks %d)", mainName, cb.Name, rr.RunID, maxCooks)

	sum, runErr := engine.New(g, maxCooks, plog).Run(mainName)

	now := time.Now()
	rr.FinishedAt = &now
	rr.Status = "done"
	if runErr != nil {
		rr.Status = "failed"
	}
	if sum != nil {
		rr.PeakWorkers = sum.PeakWorkers
		for name, o := range sum.Outcomes {
			rec := history.RecipeRecord{
				Status:     o.Status,
				ExitStatus: o.ExitStatus,
				WorkerID:   o.WorkerID,
			}
			if !o.At.IsZero() {
				at := o.At
				rec.At = &at
			}
			rr.Recipes[name] = rec
		}
	}
	if err := history.Save(rr); err != nil {
		log.Warn("failed to save run record", "err", err)
	}

	if runErr != nil {
		plog.Log("run %s failed", rr.RunID)
		return runErr
	}

	plog.Log("recipe %q completed (run %s)", mainName, rr.RunID)
	if verbosity == 0 {
		fmt.Printf("recipe %q completed\n", mainName)
	}
	return nil
}
