package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// maxLineSize bounds a single article line; law articles can be long
const maxLineSize = 4 << 20

// Report describes what a parse saw
type Report struct {
	Lines    int // non-blank lines
	Blank    int
	Accepted int
	Errors   []*LineError
}

// Rejected returns the number of malformed lines that were dropped
func (r *Report) Rejected() int {
	return len(r.Errors)
}

// Parse reads newline-delimited JSON articles from r.
// Malformed or oversized lines are recorded in the report and skipped;
// only a read failure on r itself is returned as an error.
func Parse(r io.Reader) (*Corpus, *Report, error) {
	report := &Report{}
	articles := make([]Article, 0)

	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte

	lineNo := 0
	for {
		raw, tooLong, readErr := readLine(br, buf[:0])
		buf = raw
		if readErr != nil && readErr != io.EOF {
			return nil, report, fmt.Errorf("failed to read corpus: %w", readErr)
		}
		if readErr == io.EOF && len(raw) == 0 && !tooLong {
			break
		}
		lineNo++

		line := bytes.TrimSuffix(bytes.TrimSuffix(raw, []byte{'\n'}), []byte{'\r'})
		switch {
		case tooLong:
			report.Lines++
			report.Errors = append(report.Errors, &LineError{
				Line:    lineNo,
				Content: preview(line),
				Err:     ErrLineTooLong,
			})
		case len(bytes.TrimSpace(line)) == 0:
			report.Blank++
		default:
			report.Lines++
			article, err := decodeArticle(line)
			if err != nil {
				report.Errors = append(report.Errors, &LineError{
					Line:    lineNo,
					Content: preview(line),
					Err:     err,
				})
			} else {
				articles = append(articles, article)
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	report.Accepted = len(articles)
	return New(articles), report, nil
}

// readLine appends the next line, newline included, to buf. Once a line
// outgrows maxLineSize the rest of it is read and discarded, and only the
// first part is kept for reporting.
func readLine(br *bufio.Reader, buf []byte) ([]byte, bool, error) {
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize+1 {
				tooLong = true
			} else {
				buf = append(buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return buf, tooLong, err
	}
}

// ParseString parses corpus text held in memory
func ParseString(text string) (*Corpus, *Report, error) {
	return Parse(strings.NewReader(text))
}

// preview returns at most the first 80 runes of line
func preview(line []byte) string {
	const max = 80
	n := 0
	for i := range line {
		if !utf8.RuneStart(line[i]) {
			continue
		}
		if n == max {
			return string(line[:i]) + "..."
		}
		n++
	}
	return string(line)
}
