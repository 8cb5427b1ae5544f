package repository

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"visit-tracker/internal/domain"
	"visit-tracker/pkg/logger"
)

const logFieldSeparator = " | "

// localVisitRepository keeps the visit counter and the visit log on disk.
// Every read-modify-write of either file happens under mu, and RecordVisit
// updates both files inside one critical section so they never drift.
type localVisitRepository struct {
	counterPath string
	logPath     string
	logger      *logger.Logger

	mu        sync.Mutex
	writeFile func(path string, data []byte) error
}

// NewLocalVisitRepository creates a file backed visit repository
func NewLocalVisitRepository(counterPath, logPath string, logger *logger.Logger) LocalVisitRepository {
	return &localVisitRepository{
		counterPath: counterPath,
		logPath:     logPath,
		logger:      logger,
		writeFile:   writeFileAtomic,
	}
}

// EnsureDefaults seeds the counter with "0" and the log with empty content if absent
func (r *localVisitRepository) EnsureDefaults() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, content := range map[string]string{
		r.counterPath: domain.DefaultCounter,
		r.logPath:     domain.DefaultLog,
	} {
		created, err := ensureFile(path, content)
		if err != nil {
			return err
		}
		if created {
			r.logger.WithField("path", path).Info("Seeded local state file")
		}
	}
	return nil
}

// RecordVisit appends one log line and increments the counter. If the counter
// cannot be written the previous log content is restored.
func (r *localVisitRepository) RecordVisit(record domain.VisitRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	counterText, err := readFileOrEmpty(r.counterPath)
	if err != nil {
		return err
	}
	logText, err := readFileOrEmpty(r.logPath)
	if err != nil {
		return err
	}

	next := parseCounter(counterText) + 1

	if err := r.writeFile(r.logPath, []byte(logText+formatLogLine(record))); err != nil {
		return fmt.Errorf("failed to append visit log: %w", err)
	}

	if err := r.writeFile(r.counterPath, []byte(strconv.FormatInt(next, 10))); err != nil {
		if restoreErr := r.writeFile(r.logPath, []byte(logText)); restoreErr != nil {
			r.logger.WithError(restoreErr).Error("Failed to roll back visit log after counter write failure")
		}
		return fmt.Errorf("failed to update visit counter: %w", err)
	}

	return nil
}

// ReadCounter returns the current counter value
func (r *localVisitRepository) ReadCounter() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text, err := readFileOrEmpty(r.counterPath)
	if err != nil {
		return 0, err
	}
	return parseCounter(text), nil
}

// ReadStats counts log lines starting with current or previous against the counter total
func (r *localVisitRepository) ReadStats(current, previous string) (domain.VisitStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := domain.VisitStats{CurrentDate: current}

	counterText, err := readFileOrEmpty(r.counterPath)
	if err != nil {
		return stats, err
	}
	stats.Total = parseCounter(counterText)

	logText, err := readFileOrEmpty(r.logPath)
	if err != nil {
		return stats, err
	}

	for _, line := range splitLines(logText) {
		switch {
		case strings.HasPrefix(line, current):
			stats.Today++
		case strings.HasPrefix(line, previous):
			stats.Yesterday++
		}
	}
	return stats, nil
}

// ReadRawLog parses every well formed log line
func (r *localVisitRepository) ReadRawLog() ([]domain.VisitRecord, error) {
	r.mu.Lock()
	logText, err := readFileOrEmpty(r.logPath)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	lines := splitLines(logText)
	records := make([]domain.VisitRecord, 0, len(lines))
	for _, line := range lines {
		record, ok := parseLogLine(line)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// parseCounter treats empty or non-numeric content as zero
func parseCounter(text string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func formatLogLine(record domain.VisitRecord) string {
	return singleLine(record.Timestamp) + logFieldSeparator +
		singleLine(record.IPAddress) + logFieldSeparator +
		singleLine(record.UserAgent) + "\n"
}

// parseLogLine splits "date | ip | user agent". The user agent may itself contain the separator.
func parseLogLine(line string) (domain.VisitRecord, bool) {
	parts := strings.SplitN(line, logFieldSeparator, 3)
	if len(parts) != 3 {
		return domain.VisitRecord{}, false
	}
	return domain.VisitRecord{
		Timestamp: parts[0],
		IPAddress: parts[1],
		UserAgent: parts[2],
	}, true
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
