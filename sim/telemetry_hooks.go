package sim

import "github.com/fmxar/racer/telemetry"

// recordEvents logs and persists transition events from the current tick.
func (s *Session) recordEvents(events []telemetry.Event) {
	if len(events) == 0 {
		return
	}

	for _, e := range events {
		s.logger.Debug("event", "type", e.Type.String(), "tick", e.Tick)
	}

	if err := s.outputManager.WriteEvents(events); err != nil {
		s.logger.Error("failed to write events", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick)
	perfStats := s.perfCollector.Stats()

	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}

	if s.opts.LogStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		s.logger.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark(s.logger)
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
	}
}
