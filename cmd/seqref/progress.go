// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/pdiddy/seqref/internal/batch"
	"github.com/pdiddy/seqref/internal/run"
	"github.com/pdiddy/seqref/pkg/types"
)

// progressBar returns a hook that drives a pterm progress bar for a dataset
// of n records.
func progressBar(dataset string, n int) run.ProgressFunc {
	if n == 0 {
		return nil
	}
	bar, err := pterm.DefaultProgressbar.WithTotal(n).WithTitle(dataset).Start()
	if err != nil {
		return nil
	}
	return func(done, total int, _ types.Outcome) {
		bar.Increment()
		if done == total {
			_, _ = bar.Stop()
		}
	}
}

// printSummary reports one dataset's counts. The primary-source count is
// shown only for by-name runs, where the primary is actually consulted.
func printSummary(dr batch.DatasetResult) {
	if dr.Err != nil {
		pterm.Error.Printfln("%s: %v", dr.Name, dr.Err)
		return
	}
	if dr.Report == nil {
		return
	}
	s := dr.Report.Summary
	pterm.Success.Printfln("%s: retrieved %d of %d sequences", dr.Name, s.Found, s.Total)
	if dr.Report.Mode == types.ByName {
		pterm.Printfln("  found in UniProt: %d", s.FoundByPrimary)
	}
	pterm.Printfln("  found in NCBI:    %d", s.FoundBySecondary)
	pterm.Printfln("  not found:        %d", s.NotFound)
	if dr.RunID != "" {
		pterm.Printfln("  run id:           %s", dr.RunID)
	}
}

// printBatchTable renders one row per dataset.
func printBatchTable(results []batch.DatasetResult) error {
	data := pterm.TableData{{"dataset", "mode", "total", "found", "uniprot", "ncbi", "not found", "status"}}
	for _, dr := range results {
		if dr.Report == nil {
			data = append(data, []string{dr.Name, "", "", "", "", "", "", pterm.Red("failed")})
			continue
		}
		s := dr.Report.Summary
		status := pterm.Green("ok")
		if dr.Err != nil {
			status = pterm.Red("failed")
		}
		data = append(data, []string{
			dr.Name, dr.Report.Mode.String(),
			fmt.Sprint(s.Total), fmt.Sprint(s.Found),
			fmt.Sprint(s.FoundByPrimary), fmt.Sprint(s.FoundBySecondary),
			fmt.Sprint(s.NotFound), status,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
