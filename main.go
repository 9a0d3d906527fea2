package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lidar-radar.klederson.com/internal/app"
	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/radar"
	"lidar-radar.klederson.com/internal/scanner"
	"lidar-radar.klederson.com/internal/transport"
)

var (
	flagPort           string
	flagBaud           int
	flagDataBits       int
	flagStopBits       int
	flagParity         string
	flagDemo           bool
	flagReceiveTimeout time.Duration
	flagLogFile        string
	flagLogLevel       string
	flagPNG            string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lidar-radar",
		Short: "LIDAR Radar - Terminal display for a 360 degree scanning rangefinder",
		Long: `LIDAR Radar drives a serial scanning rangefinder in start/receive/stop
cycles, averages each 2200 byte frame into 72 five degree buckets and draws
the result as a polar radar, both on a 320x240 canvas and in the terminal.

Requires read/write access to the serial port (e.g. membership of the
dialout group). Use --demo to run against a simulated sensor.`,
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagPort, "port", config.DefaultPort, "Serial port the sensor is attached to")
	pf.IntVar(&flagBaud, "baud", config.DefaultBaudRate, "Serial baud rate")
	pf.IntVar(&flagDataBits, "data-bits", 8, "Serial data bits (5-8)")
	pf.IntVar(&flagStopBits, "stop-bits", 1, "Serial stop bits (1 or 2)")
	pf.StringVar(&flagParity, "parity", "N", "Serial parity (N, E or O)")
	pf.BoolVar(&flagDemo, "demo", false, "Use a simulated sensor (no hardware required)")
	pf.DurationVar(&flagReceiveTimeout, "receive-timeout", 0, "Abort a cycle when a frame takes longer than this (0 waits forever)")
	pf.StringVar(&flagLogFile, "log-file", config.DefaultLogFile, "Log file for the radar display")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&flagPNG, "png", "", "Write the final canvas to this PNG file on exit")

	rootCmd.AddCommand(newDumpCmd(), newCaptureCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log, err := newLogger(logFile)
	if err != nil {
		return err
	}

	tr, motor, source, err := openSensor(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "Check that the sensor is plugged in and the port is accessible.")
		fmt.Fprintln(os.Stderr, "Try one of:")
		fmt.Fprintf(os.Stderr, "  sudo usermod -aG dialout %s\n", os.Getenv("USER"))
		fmt.Fprintln(os.Stderr, "  ./lidar-radar --port /dev/ttyACM0")
		fmt.Fprintln(os.Stderr, "  ./lidar-radar --demo    (simulated sensor, no hardware needed)")
		return err
	}
	defer tr.Close()

	fb := radar.NewFramebuffer()
	sc := scanner.New(tr, motor, radar.NewRasterizer(fb), scanner.Options{
		ReceiveTimeout: flagReceiveTimeout,
	}, log)

	model := app.New(sc, fb, source, log)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)

	model.StartScanner(p)
	_, err = p.Run()
	model.Stop()

	if flagPNG != "" {
		if pngErr := writePNG(fb, flagPNG); pngErr != nil {
			log.WithError(pngErr).Error("failed to write canvas")
			return pngErr
		}
		log.WithField("file", flagPNG).Info("canvas written")
	}
	return err
}

func newLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

// openSensor returns the simulator in demo mode and the serial port otherwise.
// source is the label shown in the menu bar.
func openSensor(log logrus.FieldLogger) (tr transport.Transport, motor transport.Motor, source string, err error) {
	if flagDemo {
		sim := transport.NewSimulator(transport.DefaultSimulatorOptions())
		log.Info("using simulated sensor")
		return sim, sim, "demo", nil
	}

	st, err := transport.Open(flagPort, transport.PortOptions{
		BaudRate: flagBaud,
		DataBits: flagDataBits,
		StopBits: flagStopBits,
		Parity:   flagParity,
	}, log)
	if err != nil {
		return nil, nil, "", err
	}
	return st, st, flagPort, nil
}

func writePNG(fb *radar.Framebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fb.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
