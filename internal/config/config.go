package config

import "time"

const (
	// Sensor protocol
	CommandPrefix  = 0xA5 // First byte of every sensor command
	StartScanCode  = 0x20 // Start continuous scan
	StopScanCode   = 0x25 // Stop scan
	FrameSize      = 2200 // Bytes received per scan cycle
	RecordSize     = 5    // quality, angle lo, angle hi, distance lo, distance hi
	SampleCount    = 400  // Records decoded per frame
	SyncWindow     = 50   // Leading bytes searched for a record boundary
	MarkerPrimary  = 0x02 // Quality byte observed at record starts
	MarkerFallback = 0x3E // Alternate quality byte observed at record starts

	// Fixed-point scaling
	AngleDivisor   = 64.0    // Raw angle units per degree
	DistanceFull   = 65535.0 // Raw distance full scale
	DistanceFactor = 6 * 2   // Working units at full scale

	// Histogram
	BucketCount   = 72  // Angular buckets shown on the display
	BucketSpanDeg = 5.0 // Degrees per bucket

	// Canvas
	CanvasWidth    = 320
	CanvasHeight   = 240
	CenterX        = 160
	CenterY        = 120
	OuterRadius    = 110.0 // Pixel radius for "too far / no return"
	PixelsPerUnit  = 55.0  // Pixels per working distance unit
	FarThreshold   = 2.0   // Averages above this clamp to OuterRadius
	HistoryLength  = 60    // Per-bucket distance history kept by the TUI
	RenderCellCols = 4     // Canvas pixels per terminal column
	RenderCellRows = 8     // Canvas pixels per terminal row

	// Serial defaults
	DefaultPort     = "/dev/ttyUSB0"
	DefaultBaudRate = 115200
	PollInterval    = time.Millisecond      // Receive count polling period
	RetryDelay      = 50 * time.Millisecond // First pause after a failed acquisition
	MaxRetryDelay   = 2 * time.Second       // Cap for the doubling retry pause

	// Demo mode
	DemoFrameInterval = 150 * time.Millisecond // Simulated time to stream one frame
	DemoNoise         = 0.03                   // Working-unit noise on simulated distances

	// App
	TargetFPS      = 15
	AppName        = "LIDAR-RADAR"
	AppVersion     = "1.0"
	DefaultLogFile = "lidar-radar.log"
)
