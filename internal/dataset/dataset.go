package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/scoregate/scoregate/internal/apperr"
)

type Candidate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Row is one labeled query: a candidate pool plus the IDs judged relevant.
// Relevant is an ordered slice, not a set; ideal-ranking computations walk
// it in file order.
type Row struct {
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
	Relevant   []string    `json:"relevant"`
}

// LoadFromFile reads a JSONL dataset, one Row per line. Blank lines are
// skipped; a malformed line or an empty file aborts the load.
func LoadFromFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.NewConfigWrap(fmt.Sprintf("open dataset %s", path), err)
	}
	defer f.Close()

	var rows []Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var row Row
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, apperr.NewValidationWrap(fmt.Sprintf("dataset %s line %d", path, line), err)
		}
		if row.Query == "" {
			return nil, apperr.NewValidation(fmt.Sprintf("dataset %s line %d: missing query", path, line))
		}
		if len(row.Candidates) == 0 {
			return nil, apperr.NewValidation(fmt.Sprintf("dataset %s line %d: no candidates", path, line))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.NewConfigWrap(fmt.Sprintf("read dataset %s", path), err)
	}

	if len(rows) == 0 {
		return nil, apperr.NewConfig(fmt.Sprintf("dataset %s contains no rows", path))
	}
	return rows, nil
}
