package logging

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// levelTokens are the level labels the text formatter writes.
var levelTokens = map[string]log.Level{
	"DEBU": log.DebugLevel,
	"INFO": log.InfoLevel,
	"WARN": log.WarnLevel,
	"ERRO": log.ErrorLevel,
	"FATA": log.FatalLevel,
}

// Tail returns the last maxLines lines of the log at path whose level is at
// least minLevel. maxLines <= 0 returns every matching line. Lines without a
// level are kept. A missing file yields no lines.
func Tail(path string, maxLines int, minLevel log.Level) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if lvl, ok := LineLevel(line); ok && lvl < minLevel {
			continue
		}
		lines = append(lines, line)
		// Keep the buffer bounded; drop the head once it doubles.
		if maxLines > 0 && len(lines) >= 2*maxLines {
			lines = append(lines[:0], lines[len(lines)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// LineLevel finds the level label among the leading fields of a log line.
func LineLevel(line string) (log.Level, bool) {
	fields := strings.Fields(line)
	for i := 0; i < len(fields) && i < 4; i++ {
		if lvl, ok := levelTokens[fields[i]]; ok {
			return lvl, true
		}
	}
	return 0, false
}
