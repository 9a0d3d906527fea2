package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
	"lidar-radar.klederson.com/internal/radar"
	"lidar-radar.klederson.com/internal/scanner"
	"lidar-radar.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	scanner *scanner.Scanner
	fb      *radar.Framebuffer
	history *BucketHistory
	log     logrus.FieldLogger

	cancel context.CancelFunc
	done   chan struct{}
}

// Stats counts cycle outcomes reported by the scanner.
type Stats struct {
	Frames       uint64
	SyncFailures uint64
	Timeouts     uint64
	Errors       uint64
}

// AppModel is the root Bubble Tea model for the lidar radar.
type AppModel struct {
	width  int
	height int

	scanning bool
	source   string
	cursor   int
	detail   bool

	stats Stats
	last  scanner.FrameMsg
	err   error

	shared *shared

	// Cached snapshot
	pixels *radar.Pixels
}

// New creates a model that displays fb and the frames reported by sc.
// source names the sensor port (or "demo") in the menu bar.
func New(sc *scanner.Scanner, fb *radar.Framebuffer, source string, log logrus.FieldLogger) AppModel {
	return AppModel{
		scanning: true,
		source:   source,
		pixels:   fb.Snapshot(),
		shared: &shared{
			scanner: sc,
			fb:      fb,
			history: NewBucketHistory(config.HistoryLength),
			log:     log,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.scanning {
			m.pixels = m.shared.fb.Snapshot()
		}
		return m, tickCmd()

	case scanner.FrameMsg:
		m.countFrame(msg)
		if msg.Err == nil && m.scanning {
			m.last = msg
			m.shared.history.Record(&msg.Histogram.Averages)
		}
		return m, nil

	case ScanErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m *AppModel) countFrame(msg scanner.FrameMsg) {
	switch {
	case msg.Err == nil:
		m.stats.Frames++
	case errors.Is(msg.Err, lidar.ErrSyncFailure):
		m.stats.SyncFailures++
	case errors.Is(msg.Err, scanner.ErrReceiveTimeout):
		m.stats.Timeouts++
	default:
		m.stats.Errors++
	}
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.Stop()
		return m, tea.Quit

	case "s", "S":
		m.scanning = true

	case "p", "P":
		m.scanning = false

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < config.BucketCount-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		m.cursor = config.BucketCount - 1

	case "enter":
		m.detail = true

	case "esc":
		m.detail = false
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing lidar radar..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	radarW := m.width * 3 / 4
	if radarW < 30 {
		radarW = 30
	}
	listW := m.width - radarW
	if listW < 24 {
		listW = 24
		radarW = m.width - listW
	}

	menuBar := ui.RenderMenuBar(m.width, m.source, m.scanning)

	var mainPanel string
	if m.detail {
		mainPanel = ui.RenderDetailPanel(m.bucketDetail(), radarW, bodyH)
	} else {
		innerW := radarW - 4
		innerH := bodyH - 4
		if innerW < 5 {
			innerW = 5
		}
		if innerH < 3 {
			innerH = 3
		}
		radarContent := radar.RenderTerminal(innerW, innerH, m.pixels, m.cursor)
		legend := radar.RenderLegend(innerW)
		mainPanel = ui.RenderRadarPanel(radarW, bodyH, radarContent, legend)
	}

	bucketList := ui.RenderBucketList(&m.last.Histogram, listW, bodyH, m.cursor)
	statusBar := ui.RenderStatusBar(m.width, m.statusInfo())

	return ui.ComposeLayout(menuBar, mainPanel, bucketList, statusBar, m.width)
}

func (m AppModel) bucketDetail() ui.BucketDetail {
	h := &m.last.Histogram
	return ui.BucketDetail{
		Index:   m.cursor,
		Average: h.Averages[m.cursor],
		Count:   h.Counts[m.cursor],
		Quality: h.Quality[m.cursor],
		Point:   m.last.Points[m.cursor],
		History: m.shared.history[m.cursor].Values(),
	}
}

func (m AppModel) statusInfo() ui.StatusInfo {
	info := ui.StatusInfo{
		Scanning:     m.scanning,
		Frames:       m.stats.Frames,
		SyncFailures: m.stats.SyncFailures,
		Timeouts:     m.stats.Timeouts,
		Errors:       m.stats.Errors,
		Offset:       m.last.Offset,
		Duration:     m.last.Duration,
		Err:          m.err,
	}
	if m.shared.scanner != nil {
		info.State = m.shared.scanner.State().String()
		info.Cycles = m.shared.scanner.Cycles()
	}
	return info
}

// Stats returns the cycle outcome counters.
func (m AppModel) Stats() Stats {
	return m.stats
}

// StartScanner runs the scanner loop in the background, reporting frames to p.
// Must be called before p.Run().
func (m *AppModel) StartScanner(p *tea.Program) {
	ctx, cancel := context.WithCancel(context.Background())
	m.shared.cancel = cancel
	m.shared.done = make(chan struct{})
	m.shared.scanner.SetNotifier(p)

	go func() {
		defer close(m.shared.done)
		err := m.shared.scanner.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			m.shared.log.WithError(err).Error("scanner stopped")
			p.Send(ScanErrorMsg{Err: err})
		}
	}()
}

// Stop cancels the scanner loop and waits for it to switch the sensor off.
func (m AppModel) Stop() {
	if m.shared.cancel == nil {
		return
	}
	m.shared.cancel()
	select {
	case <-m.shared.done:
	case <-time.After(2 * time.Second):
		m.shared.log.Warn("scanner did not stop in time")
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
