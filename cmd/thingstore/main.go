// Command thingstore is the command-line front end of the typed document
// store.
package main

import (
	"os"

	"github.com/mesh-intelligence/thingstore/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
