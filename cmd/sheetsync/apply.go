package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scoresheet/ingestion/internal/models"
)

var (
	applyAuthor string
	applyDryRun bool
	applySave   bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply one chat message to the sheet",
	Long: `Reads a chat message body from a file (or stdin when no file or "-" is
given), extracts its predictions for --author and writes them in one batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyAuthor, "author", "", "submitter identity, e.g. 4915700000001@c.us")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "resolve cells without writing them")
	applyCmd.Flags().BoolVar(&applySave, "save", false, "also store the message in the ledger for later replays")
	_ = applyCmd.MarkFlagRequired("author")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	body, err := readBody(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	msg := models.InboundMessage{
		MessageID: "cli-" + uuid.NewString(),
		ChatName:  cfg.ChatName,
		Author:    applyAuthor,
		Body:      body,
		SentAt:    time.Now(),
	}

	service, err := newService(ctx)
	if err != nil {
		return err
	}
	service.WithDryRun(applyDryRun)

	if applySave && !applyDryRun {
		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		service.WithRecorder(db)
	}

	result, err := service.Process(ctx, msg)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func readBody(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	return string(data), nil
}
