// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/smartgpio/board"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the board description and list its pins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := board.LoadFile(boardPath)
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg)
	},
}

func printConfig(w io.Writer, cfg *board.Config) error {
	if _, err := fmt.Fprintf(w, "%s: %d pins, period %s\n", cfg.Name, len(cfg.Pins), cfg.Period); err != nil {
		return err
	}
	for _, e := range cfg.Expanders {
		if _, err := fmt.Fprintf(w, "  %-8s %-12s %#x\n", e.Name, e.Chip, e.Address); err != nil {
			return err
		}
	}
	for _, p := range cfg.Pins {
		src := p.GPIO
		if p.ADC != nil {
			src = fmt.Sprintf("ADS1015 %#x/%d", p.ADC.Address, p.ADC.Channel)
		}
		extra := ""
		switch {
		case p.Follow != "":
			extra = " follows " + p.Follow
		case p.BlinkFrom != "":
			extra = " blinks from " + p.BlinkFrom
		case p.Blink != nil:
			extra = fmt.Sprintf(" blinks %s/%s", p.Blink.On, p.Blink.Off)
		}
		inv := ""
		if p.Inverted {
			inv = " inverted"
		}
		if _, err := fmt.Fprintf(w, "  %-8s %-12s %s%s%s\n", p.Name, p.Kind, src, inv, extra); err != nil {
			return err
		}
	}
	return nil
}
