package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, bt BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == bt {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_SlipSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Add some history with little slip
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 250), Ticks: 250, SlipFrac: 0.05})
	}

	// Now a window with >2x the average slip
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500, Ticks: 250, SlipFrac: 0.3})
	if !hasBookmark(bookmarks, BookmarkSlipSpike) {
		t.Error("expected slip_spike bookmark")
	}
}

func TestBookmarkDetector_TopSpeed(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bookmarks := bd.Check(WindowStats{WindowEndTick: 250, SpeedMax: 0.5}); hasBookmark(bookmarks, BookmarkTopSpeed) {
		t.Error("expected no top_speed on the first window")
	}
	if bookmarks := bd.Check(WindowStats{WindowEndTick: 500, SpeedMax: 0.51}); hasBookmark(bookmarks, BookmarkTopSpeed) {
		t.Error("expected no top_speed for a marginal gain")
	}
	if bookmarks := bd.Check(WindowStats{WindowEndTick: 750, SpeedMax: 0.8}); !hasBookmark(bookmarks, BookmarkTopSpeed) {
		t.Error("expected top_speed bookmark")
	}
}

func TestBookmarkDetector_PaceDrop(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 250), SpeedMean: 0.8})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1000, SpeedMean: 0.4})
	if !hasBookmark(bookmarks, BookmarkPaceDrop) {
		t.Error("expected pace_drop bookmark")
	}

	// Peak resets after a drop.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 1250, SpeedMean: 0.35})
	if hasBookmark(bookmarks, BookmarkPaceDrop) {
		t.Error("expected no second pace_drop against the reset peak")
	}
}

func TestBookmarkDetector_BoostStarved(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bookmarks := bd.Check(WindowStats{WindowEndTick: 250, BoostEmptied: 1, BoostFrac: 0.4})
	if !hasBookmark(bookmarks, BookmarkBoostStarved) {
		t.Error("expected boost_starved bookmark")
	}
}

func TestBookmarkDetector_CleanStint(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 8; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 250), Ticks: 250, SpeedMean: 0.5})
		if hasBookmark(bookmarks, BookmarkCleanStint) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one clean_stint bookmark, got %d", count)
	}

	// An off-track window breaks the stint.
	bd.Check(WindowStats{WindowEndTick: 2250, Ticks: 250, OffTrackFrac: 0.1})
	if bd.cleanWindowCount != 0 {
		t.Errorf("expected clean count reset, got %d", bd.cleanWindowCount)
	}

	bd.Reset()
	if bd.historyIdx != 0 || bd.historyFull || bd.bestSpeed != 0 {
		t.Error("expected detector state cleared by reset")
	}
}
