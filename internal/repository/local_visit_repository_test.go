package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"visit-tracker/internal/domain"
	"visit-tracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalRepo(t *testing.T) (*localVisitRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo := NewLocalVisitRepository(
		filepath.Join(dir, "counter.txt"),
		filepath.Join(dir, "visit_log.txt"),
		logger.NewNop(),
	).(*localVisitRepository)
	require.NoError(t, repo.EnsureDefaults())
	return repo, dir
}

func visit(ts, ip string) domain.VisitRecord {
	return domain.VisitRecord{Timestamp: ts, IPAddress: ip, UserAgent: "Mozilla/5.0"}
}

func TestLocalVisitRepository_EnsureDefaults(t *testing.T) {
	repo, dir := setupLocalRepo(t)

	counter, err := os.ReadFile(filepath.Join(dir, "counter.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(counter))

	logContent, err := os.ReadFile(filepath.Join(dir, "visit_log.txt"))
	require.NoError(t, err)
	assert.Empty(t, logContent)

	// Existing content must survive a second bootstrap
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.txt"), []byte("41"), 0o644))
	require.NoError(t, repo.EnsureDefaults())

	counter, err = os.ReadFile(filepath.Join(dir, "counter.txt"))
	require.NoError(t, err)
	assert.Equal(t, "41", string(counter))
}

func TestLocalVisitRepository_EnsureDefaultsCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	repo := NewLocalVisitRepository(filepath.Join(dir, "counter.txt"), filepath.Join(dir, "visit_log.txt"), logger.NewNop())

	require.NoError(t, repo.EnsureDefaults())
	assert.FileExists(t, filepath.Join(dir, "counter.txt"))
	assert.FileExists(t, filepath.Join(dir, "visit_log.txt"))
}

func TestLocalVisitRepository_RecordVisitSequential(t *testing.T) {
	repo, dir := setupLocalRepo(t)

	before, err := repo.ReadCounter()
	require.NoError(t, err)

	const n = 25
	for i := 0; i < n; i++ {
		require.NoError(t, repo.RecordVisit(visit("2024-01-15 09:30:00", "203.0.113.7")))
	}

	after, err := repo.ReadCounter()
	require.NoError(t, err)
	assert.Equal(t, before+n, after)

	logContent, err := os.ReadFile(filepath.Join(dir, "visit_log.txt"))
	require.NoError(t, err)
	assert.Equal(t, n, strings.Count(string(logContent), "\n"))
	assert.True(t, strings.HasPrefix(string(logContent), "2024-01-15 09:30:00 | 203.0.113.7 | Mozilla/5.0\n"))
}

func TestLocalVisitRepository_RecordVisitConcurrent(t *testing.T) {
	repo, _ := setupLocalRepo(t)

	const callers = 50
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.RecordVisit(visit("2024-01-15 10:00:00", "198.51.100.1")))
		}()
	}
	wg.Wait()

	total, err := repo.ReadCounter()
	require.NoError(t, err)
	assert.Equal(t, int64(callers), total)

	records, err := repo.ReadRawLog()
	require.NoError(t, err)
	assert.Len(t, records, callers)
	for _, record := range records {
		assert.Equal(t, "198.51.100.1", record.IPAddress)
	}
}

func TestLocalVisitRepository_MalformedCounter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int64
	}{
		{name: "empty", content: "", expected: 0},
		{name: "whitespace", content: " \n", expected: 0},
		{name: "garbage", content: "abc", expected: 0},
		{name: "negative", content: "-3", expected: 0},
		{name: "trailing newline", content: "7\n", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, dir := setupLocalRepo(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.txt"), []byte(tt.content), 0o644))

			value, err := repo.ReadCounter()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)

			require.NoError(t, repo.RecordVisit(visit("2024-01-15 09:30:00", "203.0.113.7")))
			value, err = repo.ReadCounter()
			require.NoError(t, err)
			assert.Equal(t, tt.expected+1, value)
		})
	}
}

func TestLocalVisitRepository_RollbackOnCounterFailure(t *testing.T) {
	repo, dir := setupLocalRepo(t)
	require.NoError(t, repo.RecordVisit(visit("2024-01-14 08:00:00", "203.0.113.7")))

	counterPath := filepath.Join(dir, "counter.txt")
	repo.writeFile = func(path string, data []byte) error {
		if path == counterPath {
			return errors.New("disk full")
		}
		return writeFileAtomic(path, data)
	}

	err := repo.RecordVisit(visit("2024-01-15 08:00:00", "203.0.113.8"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	records, err := repo.ReadRawLog()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	total, err := repo.ReadCounter()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestLocalVisitRepository_ReadStats(t *testing.T) {
	repo, _ := setupLocalRepo(t)

	for _, ts := range []string{
		"2024-01-15 09:30:00",
		"2024-01-15 14:20:00",
		"2024-01-14 10:15:00",
		"2024-01-13 23:59:59",
	} {
		require.NoError(t, repo.RecordVisit(visit(ts, "203.0.113.7")))
	}

	stats, err := repo.ReadStats("2024-01-15", "2024-01-14")
	require.NoError(t, err)
	assert.Equal(t, domain.VisitStats{Total: 4, Today: 2, Yesterday: 1, CurrentDate: "2024-01-15"}, stats)
}

func TestLocalVisitRepository_ReadStatsConsistentUnderWrites(t *testing.T) {
	repo, _ := setupLocalRepo(t)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 30; i++ {
			ts := "2024-01-15 10:00:00"
			if i%2 == 1 {
				ts = "2024-01-14 10:00:00"
			}
			assert.NoError(t, repo.RecordVisit(visit(ts, "203.0.113.7")))
		}
	}()

	// Every snapshot must balance: counter total equals the lines counted
	for i := 0; i < 30; i++ {
		stats, err := repo.ReadStats("2024-01-15", "2024-01-14")
		require.NoError(t, err)
		assert.Equal(t, stats.Total, stats.Today+stats.Yesterday)
	}
	wg.Wait()
}

func TestLocalVisitRepository_ReadStatsMissingLog(t *testing.T) {
	repo, dir := setupLocalRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.txt"), []byte("7"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "visit_log.txt")))

	stats, err := repo.ReadStats("2024-01-15", "2024-01-14")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Total)
	assert.Zero(t, stats.Today)
	assert.Zero(t, stats.Yesterday)
}

func TestLocalVisitRepository_ReadRawLog(t *testing.T) {
	repo, dir := setupLocalRepo(t)

	content := "2024-01-15 | 203.0.113.7 | Chrome\n" +
		"not a record\n" +
		"\n" +
		"2024-01-14 | 198.51.100.2 | Agent | with | pipes\r\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visit_log.txt"), []byte(content), 0o644))

	records, err := repo.ReadRawLog()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.VisitRecord{Timestamp: "2024-01-15", IPAddress: "203.0.113.7", UserAgent: "Chrome"}, records[0])
	assert.Equal(t, "Agent | with | pipes", records[1].UserAgent)
}

func TestLocalVisitRepository_NewlinesInFields(t *testing.T) {
	repo, _ := setupLocalRepo(t)

	require.NoError(t, repo.RecordVisit(domain.VisitRecord{
		Timestamp: "2024-01-15 09:30:00",
		IPAddress: "203.0.113.7",
		UserAgent: "evil\nagent\r\n2024-01-15 | 1.1.1.1 | forged",
	}))

	records, err := repo.ReadRawLog()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0].UserAgent, "\n")
}

func TestLocalVisitRepository_MissingFilesReadAsEmpty(t *testing.T) {
	dir := t.TempDir()
	repo := NewLocalVisitRepository(filepath.Join(dir, "counter.txt"), filepath.Join(dir, "visit_log.txt"), logger.NewNop())

	total, err := repo.ReadCounter()
	require.NoError(t, err)
	assert.Zero(t, total)

	records, err := repo.ReadRawLog()
	require.NoError(t, err)
	assert.Empty(t, records)
}
