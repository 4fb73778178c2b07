package main

import (
	"github.com/spf13/cobra"

	"scoresheet/ingestion/internal/scheduler"
)

var replayLimit int

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay the latest stored messages against the sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		service, err := newService(ctx)
		if err != nil {
			return err
		}
		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		service.WithRecorder(db)

		limit := cfg.ReplayLimit
		if replayLimit > 0 {
			limit = replayLimit
		}

		sched := scheduler.NewScheduler(scheduler.Config{Limit: limit}, db, service)
		result, err := sched.Replay(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	replayCmd.Flags().IntVar(&replayLimit, "limit", 0, "number of messages to replay (default REPLAY_LIMIT)")
}
