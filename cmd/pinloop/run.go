// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/smartgpio/board"
	"github.com/GermanBionicSystems/smartgpio/pinpanel"
	"github.com/GermanBionicSystems/smartgpio/pinstrip"
	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

var (
	runOpts = struct {
		period   time.Duration
		strip    bool
		snapshot string
	}{}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Loop the pins until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strip := isatty.IsTerminal(os.Stdout.Fd())
			if cmd.Flags().Changed("strip") {
				strip = runOpts.strip
			}
			return run(cmd.Context(), strip)
		},
	}
)

func init() {
	runCmd.Flags().DurationVarP(&runOpts.period, "period", "p", 0, "loop period, the board period when 0")
	runCmd.Flags().BoolVar(&runOpts.strip, "strip", false, "show the pins as a color strip, default when stdout is a terminal")
	runCmd.Flags().StringVar(&runOpts.snapshot, "snapshot", "", "write a PNG panel of the pins to this file on exit")
}

func run(ctx context.Context, strip bool) (err error) {
	if _, err := host.Init(); err != nil {
		return err
	}
	cfg, err := board.LoadFile(boardPath)
	if err != nil {
		return err
	}
	r := &board.HostResolver{Expanders: cfg.Expanders}
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()
	opts := board.Opts{Logger: log.Default()}
	var s *pinstrip.Dev
	if strip {
		opts.AfterLoop = func(*board.Board) {
			if err := s.Refresh(); err != nil {
				log.Printf("strip: %v", err)
			}
		}
	}
	b, err := board.New(cfg, r, &opts)
	if err != nil {
		return err
	}
	if strip {
		s = pinstrip.New(b.Pins(), &pinstrip.Opts{Labels: true})
		defer s.Halt()
	} else {
		b.Notify(func(p smartpin.Pin) {
			log.Printf("%s", smartpin.StatusOf(p))
		})
	}
	if err := b.Setup(); err != nil {
		return err
	}
	log.Printf("running %s", b)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := b.Run(ctx, runOpts.period); !errors.Is(err, context.Canceled) {
		return err
	}
	if runOpts.snapshot != "" {
		if err := snapshot(runOpts.snapshot, b.Pins()); err != nil {
			return err
		}
	}
	return b.Halt()
}

func snapshot(path string, pins []smartpin.Pin) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pinpanel.WritePNG(f, pins, nil); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
