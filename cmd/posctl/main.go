// posctl is the operator CLI: schema migration, admin bootstrap and
// password hashing for manual fixes.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
