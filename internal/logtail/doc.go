// Package logtail reads and classifies shortreel's own log file.
//
// While the TUI owns the terminal, the standard logger writes to a file
// (config log_path). The Logs view shows its tail, highlighting relay
// fallbacks and failures.
//
// Read uses a ring buffer so only the last N lines are kept in memory,
// whatever the file size:
//
//	lines, err := logtail.Read(cfg.LogPath, 400)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.Filter(lines, "relay:") {
//		fmt.Println(line)
//	}
package logtail
