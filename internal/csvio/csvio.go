// Package csvio reads product rows from uploaded CSV files and writes exports
// in the same column layout, so an export can be imported again unchanged.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"stocktrack/internal/domain"
)

// Columns is the fixed export order. Import accepts them in any order.
var Columns = []string{"name", "unit", "category", "brand", "stock", "status", "image"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data record keyed by lower-cased header name.
type Row struct {
	Line   int
	Values map[string]string
}

// Get reports the cell for col; ok is false when the row has no such column.
func (r Row) Get(col string) (string, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Decode reads the whole input before returning so a structural error leaves
// the caller with nothing to apply. Lines starting with '#' are comments.
// Rows may be shorter or longer than the header; missing cells are absent.
func Decode(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, parseErr(err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseErr(err)
		}
		line, _ := cr.FieldPos(0)
		vals := make(map[string]string, len(header))
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			vals[header[i]] = cell
		}
		rows = append(rows, Row{Line: line, Values: vals})
	}
	return rows, nil
}

func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &domain.ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &domain.ParseError{Err: err}
}

// Encode writes a header row followed by one row per product.
func Encode(w io.Writer, products []domain.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, p := range products {
		rec := []string{p.Name, p.Unit, p.Category, p.Brand, strconv.Itoa(p.Stock), p.Status, p.Image}
		if strings.HasPrefix(p.Name, "#") {
			// unquoted, a leading '#' reads back as a comment line
			cw.Flush()
			if _, err := io.WriteString(w, `"`+strings.ReplaceAll(p.Name, `"`, `""`)+`",`); err != nil {
				return err
			}
			rec = rec[1:]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
