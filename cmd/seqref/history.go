// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/seqref/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded in the ledger",
	Long: `History lists completed runs, newest first. With --run it prints the
per-record outcomes of one run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("run", "", "show the outcomes of this run id")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := ledger.Open(ctx, cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if id, _ := cmd.Flags().GetString("run"); id != "" {
		run, err := store.GetRun(ctx, id)
		if err != nil {
			return err
		}
		rows, err := store.Outcomes(ctx, id)
		if err != nil {
			return err
		}
		pterm.Info.Printfln("%s (%s) started %s", run.Dataset, run.Mode, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		data := pterm.TableData{{"protein", "organism", "accession", "status", "source"}}
		for _, r := range rows {
			data = append(data, []string{r.Protein, r.Organism, r.AccessionID, string(r.Status), string(r.Source)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		pterm.Info.Println("no runs recorded")
		return nil
	}

	data := pterm.TableData{{"run id", "dataset", "mode", "started", "found", "total"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID, r.Dataset, r.Mode.String(),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprint(r.Summary.Found), fmt.Sprint(r.Summary.Total),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
