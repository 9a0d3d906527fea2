package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lidar-radar.klederson.com/internal/lidar"
	"lidar-radar.klederson.com/internal/radar"
	"lidar-radar.klederson.com/internal/scanner"
)

func newCaptureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capture <file>",
		Short: "Run one scan cycle and save the raw frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}

			tr, motor, source, err := openSensor(log)
			if err != nil {
				return err
			}
			defer tr.Close()

			if err := motor.SetMotor(true); err != nil {
				return err
			}
			defer func() {
				if err := motor.SetMotor(false); err != nil {
					log.WithError(err).Warn("failed to stop motor")
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fb := radar.NewFramebuffer()
			sc := scanner.New(tr, motor, radar.NewRasterizer(fb), scanner.Options{
				ReceiveTimeout: flagReceiveTimeout,
			}, log)

			spinner, err := pterm.DefaultSpinner.Start("Capturing one frame from " + source)
			if err != nil {
				return err
			}
			frame, err := sc.Capture(ctx)
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}

			if err := os.WriteFile(args[0], frame[:], 0o644); err != nil {
				spinner.Fail(err.Error())
				return err
			}

			if offset, err := lidar.Locate(frame); err != nil {
				spinner.Warning("Saved " + args[0] + " but no record boundary was found")
			} else {
				spinner.Success(pterm.Sprintf("Saved %s (record offset %d)", args[0], offset))
			}
			return nil
		},
	}
}
