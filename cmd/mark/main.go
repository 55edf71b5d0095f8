package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/justyntemme/mark/internal/app"
	"github.com/justyntemme/mark/internal/config"
)

var version = "dev"

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mark [options] [file|folder ...]\n\n")
		fmt.Fprintf(os.Stderr, "Files open as tabs, a folder opens as the workspace.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}

	debugFlag := pflag.Bool("debug", false, "Enable verbose debug logging (debug builds only)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	generateConfig := pflag.Bool("generate-config", false, "Write a default config file, backing up an existing one")
	// Platform launchers may pass flags of their own; they are not ours to reject.
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("mark version %s\n", version)
		return
	}

	if *generateConfig {
		backup, err := config.GenerateConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", config.ConfigPath())
		if backup != "" {
			fmt.Printf("Previous config saved as %s\n", backup)
		}
		return
	}

	manageConsole(*debugFlag)

	// The resolver does its own flag filtering on the raw arguments.
	app.Main(app.Options{Args: os.Args[1:], Debug: *debugFlag})
}
