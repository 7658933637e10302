// SPDX-License-Identifier: MIT
// Copyright (c) 2026 FrogFS authors
// Source: github.com/frogfs/mkfrogfs

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frogfs/mkfrogfs"
)

var rootConfiguration struct {
	configPath string
	align      int
	dirs       bool
	buildDir   string
	toolDir    string
	dryRun     bool
	verbose    bool
}

var rootCommand = &cobra.Command{
	Use:   "mkfrogfs <root> <output>",
	Short: "Build a FrogFS image from a source directory tree",
	Args:  cobra.ExactArgs(2),
	RunE:  runBuild,
}

func init() {
	flags := rootCommand.Flags()
	flags.StringVar(&rootConfiguration.configPath, "config", "", "path to a filter config YAML file")
	flags.IntVar(&rootConfiguration.align, "align", frogfs.DefaultAlign, "record alignment in bytes (1-255)")
	flags.BoolVar(&rootConfiguration.dirs, "dirs", false, "emit directory entries and child offset arrays")
	flags.StringVar(&rootConfiguration.buildDir, "build-dir", "", "cache and state directory (default: output directory)")
	flags.StringVar(&rootConfiguration.toolDir, "tool-dir", "", "additional directory to search for transform scripts")
	flags.BoolVar(&rootConfiguration.dryRun, "dry-run", false, "resolve rules and staleness and refresh the cache without writing the state file or image")
	flags.BoolVarP(&rootConfiguration.verbose, "verbose", "v", false, "enable debug logging")
}

func runBuild(cmd *cobra.Command, args []string) error {
	sourceRoot, outPath := args[0], args[1]

	logger := logrus.New()
	if rootConfiguration.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var rules []frogfs.FilterRule
	if rootConfiguration.configPath != "" {
		loaded, err := frogfs.LoadConfig(rootConfiguration.configPath)
		if err != nil {
			return err
		}
		rules = loaded
	}

	result, err := frogfs.Build(sourceRoot, outPath, frogfs.BuildOptions{
		Rules:    rules,
		Align:    rootConfiguration.align,
		Dirs:     rootConfiguration.dirs,
		BuildDir: rootConfiguration.buildDir,
		ToolDir:  rootConfiguration.toolDir,
		DryRun:   rootConfiguration.dryRun,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	printSummary(outPath, result)

	return nil
}

func printSummary(outPath string, result frogfs.BuildResult) {
	if result.SkippedBuild {
		color.Yellow("nothing to do: %s is already up to date", outPath)
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf(
		"%s  %s entries, %s rebuilt, %s data, %s saved by compression, in %s\n",
		bold(outPath),
		humanize.Comma(int64(result.WrittenEntries)),
		humanize.Comma(int64(result.RebuiltEntries)),
		humanize.Bytes(uint64(result.DataSize)),
		humanize.Bytes(uint64(result.CompressionSavedBytes)),
		result.Duration.Round(time.Millisecond),
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
