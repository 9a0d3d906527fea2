package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
	"lidar-radar.klederson.com/internal/radar"
)

var errCaptureSize = errors.New("capture is not one frame")

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Decode a raw frame capture and print its buckets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := loadFrame(args[0])
			if err != nil {
				return err
			}
			out, err := renderDump(frame)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func loadFrame(path string) (*lidar.RawFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) != config.FrameSize {
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", errCaptureSize, path, len(data), config.FrameSize)
	}
	var frame lidar.RawFrame
	copy(frame[:], data)
	return &frame, nil
}

// renderDump runs sync, decode and averaging on frame and formats a summary
// table followed by one row per bucket.
func renderDump(frame *lidar.RawFrame) (string, error) {
	offset, err := lidar.Locate(frame)
	if err != nil {
		return "", err
	}
	samples := lidar.Decode(frame, offset)
	hist := lidar.Aggregate(&samples)
	points := radar.Render(discardCanvas{}, &hist.Averages, radar.InitialPoints())

	var sb strings.Builder

	returns, far := 0, 0
	for i, n := range hist.Counts {
		if n > 0 {
			returns++
		}
		if hist.Averages[i] > config.FarThreshold {
			far++
		}
	}

	sb.WriteString(pterm.DefaultSection.Sprintln("Frame"))
	summary, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Record offset", fmt.Sprintf("%d", offset)},
		{"Samples", fmt.Sprintf("%d", len(samples))},
		{"Buckets with returns", fmt.Sprintf("%d/%d", returns, config.BucketCount)},
		{"Buckets past far threshold", fmt.Sprintf("%d", far)},
	}).Srender()
	if err != nil {
		return "", err
	}
	sb.WriteString(summary + "\n")

	sb.WriteString(pterm.DefaultSection.Sprintln("Buckets"))
	data := pterm.TableData{{"Bucket", "Span", "Samples", "Quality", "Average", "Radius", "Endpoint"}}
	for i := range hist.Averages {
		lo := float64(i) * config.BucketSpanDeg
		x, y := points[i].Pixel()
		data = append(data, []string{
			fmt.Sprintf("%02d", i),
			fmt.Sprintf("%03.0f-%03.0f", lo, lo+config.BucketSpanDeg),
			fmt.Sprintf("%d", hist.Counts[i]),
			fmt.Sprintf("%.1f", hist.Quality[i]),
			fmt.Sprintf("%.3f", hist.Averages[i]),
			fmt.Sprintf("%.1f", radar.UnitsToRadius(hist.Averages[i])),
			fmt.Sprintf("(%d,%d)", x, y),
		})
	}
	buckets, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	sb.WriteString(buckets + "\n")
	return sb.String(), nil
}

// discardCanvas lets Render compute endpoints without drawing.
type discardCanvas struct{}

func (discardCanvas) SetColor(radar.Color)   {}
func (discardCanvas) FillUnitRect(x, y int) {}
