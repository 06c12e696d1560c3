package main

import (
	"fmt"
	"os"

	"github.com/comsapp/iconfix/internal/cli"
)

const AppName = "iconfix"

var (
	Version   = "unset"
	BuildDate = "unset"
	Revision  = "unset"
)

func main() {
	err := cli.Run(cli.Version{
		AppName:   AppName,
		Version:   Version,
		BuildDate: BuildDate,
		Revision:  Revision,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %s: %v\n", AppName, err)
	}
	os.Exit(cli.ExitCode(err))
}
