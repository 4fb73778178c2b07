// Command sheetsync runs update cycles by hand: apply a message file to the
// sheet, replay stored messages, or inspect the sheet and the ledger.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
