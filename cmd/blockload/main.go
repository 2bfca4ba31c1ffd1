// Command blockload imports powerlifting training-log data from a Google
// Sheets spreadsheet into a normalized Postgres schema.
package main

import (
	"os"

	"github.com/openlift/blockload/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
