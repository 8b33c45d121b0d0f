package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkTopSpeed     BookmarkType = "top_speed"
	BookmarkSlipSpike    BookmarkType = "slip_spike"
	BookmarkBoostStarved BookmarkType = "boost_starved"
	BookmarkPaceDrop     BookmarkType = "pace_drop"
	BookmarkCleanStint   BookmarkType = "clean_stint"
)

// cleanStintWindows is the number of consecutive clean windows that
// triggers a clean_stint bookmark.
const cleanStintWindows = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows in a driving session.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	bestSpeed        float64 // highest window speed max seen so far
	recentPacePeak   float64 // peak window mean speed since the last pace drop
	cleanWindowCount int     // consecutive windows without slip or off-track time
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for slip spike detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Top speed: window max beats every earlier window
		if b := bd.checkTopSpeed(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Slip spike: slip fraction > 2x rolling average
		if b := bd.checkSlipSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Pace drop: mean speed fell >30% from recent peak
		if b := bd.checkPaceDrop(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Boost starved: reserve ran dry during the window
	if b := bd.checkBoostStarved(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Clean stint: five consecutive windows on track without slipping
	if b := bd.checkCleanStint(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.SpeedMax > bd.bestSpeed {
		bd.bestSpeed = stats.SpeedMax
	}
	if stats.SpeedMean > bd.recentPacePeak {
		bd.recentPacePeak = stats.SpeedMean
	}

	return bookmarks
}

// Reset clears the history and tracked state.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.bestSpeed = 0
	bd.recentPacePeak = 0
	bd.cleanWindowCount = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkTopSpeed(stats WindowStats) *Bookmark {
	if bd.bestSpeed == 0 || stats.SpeedMax < bd.bestSpeed+0.02 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkTopSpeed,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Top speed %.0f%% beats previous best %.0f%%", stats.SpeedMax*100, bd.bestSpeed*100),
	}
}

func (bd *BookmarkDetector) checkSlipSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SlipFrac
	}
	avgSlip := total / float64(len(history))

	if stats.SlipFrac < 0.1 {
		return nil
	}
	if avgSlip == 0 || stats.SlipFrac > avgSlip*2.0 {
		return &Bookmark{
			Type:        BookmarkSlipSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Slip fraction %.2f against rolling average %.2f", stats.SlipFrac, avgSlip),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPaceDrop(stats WindowStats) *Bookmark {
	if bd.recentPacePeak < 0.1 {
		return nil
	}

	drop := 1.0 - stats.SpeedMean/bd.recentPacePeak
	if drop > 0.30 {
		// Reset peak after a drop
		oldPeak := bd.recentPacePeak
		bd.recentPacePeak = stats.SpeedMean

		return &Bookmark{
			Type:        BookmarkPaceDrop,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed dropped %.0f%% from %.2f to %.2f", drop*100, oldPeak, stats.SpeedMean),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkBoostStarved(stats WindowStats) *Bookmark {
	if stats.BoostEmptied == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBoostStarved,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Boost reserve emptied %d time(s) with %.0f%% of the window boosting", stats.BoostEmptied, stats.BoostFrac*100),
	}
}

func (bd *BookmarkDetector) checkCleanStint(stats WindowStats) *Bookmark {
	clean := stats.Ticks > 0 && stats.OffTrackFrac == 0 && stats.SlipFrac < 0.05 && stats.AirborneFrac == 0
	if !clean {
		bd.cleanWindowCount = 0
		return nil
	}

	bd.cleanWindowCount++
	if bd.cleanWindowCount == cleanStintWindows { // trigger exactly once per stint
		return &Bookmark{
			Type:        BookmarkCleanStint,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Clean driving over %d windows at mean speed %.2f", cleanStintWindows, stats.SpeedMean),
		}
	}

	return nil
}
