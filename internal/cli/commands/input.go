package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// inputRecord is one SMILES entry of an input stream.
type inputRecord struct {
	Line   int
	Smiles string
	Name   string
}

// readInput reads one SMILES per line. Text after the first whitespace is
// kept as the molecule name; blank lines and lines starting with # are
// skipped.
func readInput(r io.Reader) ([]inputRecord, error) {
	var records []inputRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		records = append(records, inputRecord{
			Line:   line,
			Smiles: fields[0],
			Name:   strings.Join(fields[1:], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return records, nil
}

// readInputFile reads SMILES records from path.
func readInputFile(path string) ([]inputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return readInput(f)
}
