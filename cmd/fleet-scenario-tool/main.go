// Command fleet-scenario-tool inspects, verifies and edits 5th Fleet scenario and map files.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/woozymasta/fleet-scenario-tool/internal/config"
	"github.com/woozymasta/fleet-scenario-tool/internal/vars"
)

type rootCmd struct {
	Version  versionCmd  `command:"version" description:"Show version information"`
	Decode   decodeCmd   `command:"decode" description:"Decode scenario objectives against their map"`
	Dump     dumpCmd     `command:"dump" description:"Dump a map, scenario or template file as yaml/json"`
	Selftest selftestCmd `command:"selftest" description:"Round-trip game files and report byte differences"`
	Patch    patchCmd    `command:"patch" description:"Apply an edit document to a scenario or map file"`
	Watch    watchCmd    `command:"watch" description:"Re-decode SCENARIO.DAT whenever it changes"`
}

type globalOptions struct {
	Config  string `short:"c" long:"config" default:"fleet.ini" description:"Settings file (ini)"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

var global globalOptions

func main() {
	var root rootCmd
	parser := flags.NewParser(&root, flags.Default)
	if _, err := parser.AddGroup("Global Options", "", &global); err != nil {
		log.Fatal(err)
	}

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLogging(global.Verbose)
		if cmd == nil {
			return nil
		}

		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.InfoLevel)
}

// loadConfig reads the settings file. The default file may be absent.
func loadConfig() (config.Config, error) {
	path := global.Config
	optional := path == "" || path == config.DefaultFile
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}
	log.Debugf("settings loaded from %s (dir=%q)", path, cfg.Dir)

	return cfg, nil
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) error {
	vars.Print()
	return nil
}
