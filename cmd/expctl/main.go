// expctl is the operator command line for the experimentation control plane.
package main

import (
	"os"

	"experimentation-control-plane/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}
