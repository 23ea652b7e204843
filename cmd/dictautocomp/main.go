// Copyright 2025 The dictautocomp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word list completion server and CLI [DBG] application.

dictautocomp completes words from plain text word lists. Each word list is
stored in a prefix trie, or in a case folded trie when it is configured to
ignore case, and is served for the files whose names match its extensions or
pattern. The first word list that matches the active file wins.

# Usage

Start the IPC server with the default config:

	dictautocomp

Use a custom config file and enable debug mode:

	dictautocomp -config ./config.toml -d

Run in CLI mode for interactive testing:

	dictautocomp -c -file notes.md -limit 10 -prmin 2

Print the trie built from a word list and exit:

	dictautocomp -dump /usr/share/dict/words -i

# Configuration

Settings live in a TOML file created with defaults when missing:

	[server]
	max_limit = 64
	max_prefix = 60

	[cli]
	default_limit = 24
	default_min_len = 1
	default_max_len = 60
	default_no_filter = false

	[[dictionaries]]
	file = "words.txt"
	extensions = ["txt", "md"]
	ignore_case = true
	min_length = 2

Relative word list paths are resolved against the config file's directory.
Word lists registered over IPC are written back to the same file.

# IPC Protocol

The server reads msgpack requests from stdin and writes responses to stdout,
see package server for the message shapes. Logs always go to stderr.

# Command Line Flags

	-version    Show current version
	-config     Path to a custom config file
	-d          Toggle debug mode
	-c          Run CLI instead of the IPC server
	-file       File name whose word list is activated at start
	-limit      Number of suggestions to return in CLI mode
	-prmin      Minimum prefix length in CLI mode
	-prmax      Maximum prefix length in CLI mode
	-no-filter  Disable CLI input filtering
	-dump       Word list to print as a trie
	-i          Fold case for -dump
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/dictautocomp/internal/cli"
	"github.com/bastiangx/dictautocomp/internal/logger"
	"github.com/bastiangx/dictautocomp/internal/utils"
	"github.com/bastiangx/dictautocomp/pkg/completion"
	"github.com/bastiangx/dictautocomp/pkg/config"
	"github.com/bastiangx/dictautocomp/pkg/dictionary"
	"github.com/bastiangx/dictautocomp/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "dictautocomp"
	gh      = "https://github.com/bastiangx/dictautocomp"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, registry and the chosen front end.
// It does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	activeFile := flag.String("file", "", "File name whose word list is activated at start")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 <= n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - completes numbers, symbols, etc")
	dumpFile := flag.String("dump", "", "Print the trie built from this word list and exit")
	ignoreCase := flag.Bool("i", false, "Fold case for -dump")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *dumpFile != "" {
		if format, err := dictionary.DetectFileFormat(*dumpFile); err == nil {
			if info, ok := dictionary.GetFormatInfo(format); ok {
				log.Debugf("Reading %s as %s", *dumpFile, info.Description)
			}
		}
		idx, err := dictionary.LoadIndex(*dumpFile, *ignoreCase)
		if err != nil {
			log.Fatalf("Failed to load word list: %v", err)
		}
		fmt.Println(idx)
		return
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	} else {
		log.Debug("Runtime", "info", pathResolver.RuntimeInfo())
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	registry, errs := completion.LoadRegistry(appConfig.Dictionaries, configPath)
	for _, err := range errs {
		log.Warn(err)
	}
	if *activeFile != "" && registry.Activate(*activeFile) == nil {
		log.Warnf("No word list serves %s", *activeFile)
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		applyCliDefaults(appConfig.CLI, limit, minPrefix, maxPrefix, noFilter)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(registry, *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(registry, appConfig, configPath)

	showStartupInfo(registry, configPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// applyCliDefaults takes CLI values from the config for flags left unset
func applyCliDefaults(c config.CliConfig, limit, minPrefix, maxPrefix *int, noFilter *bool) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["limit"] {
		*limit = c.DefaultLimit
	}
	if !set["prmin"] {
		*minPrefix = c.DefaultMinLen
	}
	if !set["prmax"] {
		*maxPrefix = c.DefaultMaxLen
	}
	if !set["no-filter"] {
		*noFilter = c.DefaultNoFilter
	}
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ dictautocomp ] word list completions for any editor")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(registry *completion.Registry, configPath string) {
	info := logger.NewWithConfig(AppName, log.InfoLevel, false, false, log.TextFormatter)

	info.Infof("Version: %s", Version)
	info.Infof("Process ID: [ %d ]", os.Getpid())
	info.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	info.Infof("word lists: %d", len(registry.Completers()))
	if c := registry.Active(); c != nil {
		info.Infof("active: ( %s )", c.File())
	}
	info.Info("status: ready")
}
