package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one SRT block. Index is 1-based, Timing is the verbatim
// "HH:MM:SS,mmm --> HH:MM:SS,mmm" line and Text is the trimmed cue text.
type Record struct {
	Index  int
	Timing string
	Text   string
}

const utf8BOM = "\ufeff"

// Encode writes records in SRT block form: index, timing, text, blank line.
// Text lines are trimmed and blank lines inside the text are dropped, since a
// blank line ends the block.
func Encode(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, "%d\n%s\n%s\n\n", rec.Index, rec.Timing, cueText(rec.Text)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// cueText removes the lines of text that would terminate an SRT block.
func cueText(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// WriteFile encodes records to path, creating parent directories and
// replacing any existing file.
func WriteFile(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create subtitle dir %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create srt %s: %w", path, err)
	}
	if err := Encode(file, records); err != nil {
		_ = file.Close()
		return fmt.Errorf("write srt %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close srt %s: %w", path, err)
	}
	return nil
}

// Decode parses SRT content. A line of ASCII digits opens a block; the next
// line must hold the "-->" timing or the block is dropped up to the next blank
// line or index line. Remaining lines up to a blank line are trimmed and joined with a
// single space. CRLF line endings and a leading UTF-8 BOM are accepted.
func Decode(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		records      []Record
		current      *Record
		text         []string
		pendingIndex int
		expectTiming bool
		skip         bool
		first        = true
	)
	flush := func() {
		if current != nil {
			current.Text = strings.Join(text, " ")
			records = append(records, *current)
		}
		current = nil
		text = text[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			flush()
			skip = false
			expectTiming = false
		case (skip || expectTiming) && isIndexLine(line):
			index, err := strconv.Atoi(line)
			if err != nil {
				skip = true
				continue
			}
			skip = false
			pendingIndex = index
			expectTiming = true
		case skip:
		case expectTiming:
			expectTiming = false
			if !strings.Contains(line, "-->") {
				skip = true
				continue
			}
			current = &Record{Index: pendingIndex, Timing: line}
		case current != nil:
			text = append(text, line)
		case isIndexLine(line):
			index, err := strconv.Atoi(line)
			if err != nil {
				skip = true
				continue
			}
			pendingIndex = index
			expectTiming = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return records, nil
}

// ReadFile decodes the SRT file at path.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt %s: %w", path, err)
	}
	defer file.Close()
	records, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("read srt %s: %w", path, err)
	}
	return records, nil
}

func isIndexLine(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] < '0' || line[i] > '9' {
			return false
		}
	}
	return true
}
