// Command txn-insights produces aggregate reports and an AI summary for a
// payment transaction export.
package main

import (
	"os"

	"github.com/dvloznov/transaction-insights/internal/cli"
	"github.com/dvloznov/transaction-insights/internal/logger"
)

func main() {
	if err := cli.Execute(os.Stdout, os.Stderr); err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("txn-insights failed")
	}
}
