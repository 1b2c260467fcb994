// Package sequence turns tabular CSV uploads into flat numeric sequences.
package sequence

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// missing lists the cell spellings treated as "no value".
var missing = map[string]struct{}{
	"nan":  {},
	"-nan": {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
}

// Parse reads a headerless CSV stream and flattens it row by row into a
// single sequence. Empty and non-numeric cells are dropped. Rows may have
// different lengths.
func Parse(r io.Reader) ([]float64, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var out []float64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		for _, cell := range record {
			if v, ok := parseCell(cell); ok {
				out = append(out, v)
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func parseCell(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if _, skip := missing[strings.ToLower(s)]; skip {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Write emits seq one value per row with no header, using the shortest
// representation that parses back to the same float.
func Write(w io.Writer, seq []float64) error {
	cw := csv.NewWriter(w)
	row := make([]string, 1)
	for _, v := range seq {
		row[0] = strconv.FormatFloat(v, 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write sequence: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	return nil
}
