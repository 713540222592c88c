// localmock CLI - command-line interface for the localmock mock server
package main

import (
	"os"

	"github.com/localmock/localmock/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
