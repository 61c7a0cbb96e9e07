// Package lastresults remembers the cards shown by the most recent list or
// find command so follow-up commands can refer to them by number.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/rolo/internal/atomicfile"
)

// Source identifies the command that produced the results.
type Source string

const (
	SourceList Source = "list"
	SourceFind Source = "find"
)

// FileName is stored next to the state file.
const FileName = "last-results.json"

// LastResults stores the card IDs of the most recent listing, in the order
// they were printed.
type LastResults struct {
	Source    Source    `json:"source"`
	Query     string    `json:"query,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IDs       []int     `json:"ids"`
}

// Errors
var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrInvalidNumber    = errors.New("invalid result number")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Path returns the results file kept alongside statePath.
func Path(statePath string) string {
	return filepath.Join(filepath.Dir(statePath), FileName)
}

// New builds a LastResults stamped with the current time.
func New(source Source, query string, ids []int) *LastResults {
	return &LastResults{
		Source:    source,
		Query:     query,
		Timestamp: time.Now(),
		IDs:       ids,
	}
}

// Write saves lr next to statePath.
func Write(statePath string, lr *LastResults) error {
	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last results: %w", err)
	}
	if err := atomicfile.WriteFile(Path(statePath), data, 0o600); err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the results saved next to statePath. It returns
// ErrNoLastResults when nothing has been listed yet.
func Read(statePath string) (*LastResults, error) {
	data, err := os.ReadFile(Path(statePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLastResults
		}
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}

	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// IDsByNumbers returns the card IDs for the given 1-indexed numbers.
func (lr *LastResults) IDsByNumbers(nums []int) ([]int, error) {
	ids := make([]int, 0, len(nums))
	for _, num := range nums {
		if num < 1 || num > len(lr.IDs) {
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(lr.IDs))
		}
		ids = append(ids, lr.IDs[num-1])
	}
	return ids, nil
}
