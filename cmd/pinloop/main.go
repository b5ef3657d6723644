// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// pinloop runs the pins of a board description on a periph host.
//
// Usage:
//
//	pinloop run --board board.yaml [--period 20ms] [--strip] [--snapshot out.png]
//	pinloop check --board board.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	boardPath string

	rootCmd = &cobra.Command{
		Use:          "pinloop",
		Short:        "Run smart pins on a periph host",
		Long:         "Load a YAML board description, set up its pins and loop them until interrupted.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&boardPath, "board", "b", "board.yaml", "board description file")
	rootCmd.AddCommand(runCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pinloop: %s.\n", err)
		os.Exit(1)
	}
}
