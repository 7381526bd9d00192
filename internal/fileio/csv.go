package fileio

import (
	"bytes"
	"encoding/csv"
	"io"
)

// readCSV reads every record, auto-detecting the encoding. Both ";" (Excel
// pt-BR) and "," separated files are accepted.
func readCSV(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(decoded(r))
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffComma(b)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// sniffComma prefers ';' when the first line has one.
func sniffComma(b []byte) rune {
	for _, c := range b {
		switch c {
		case '\n':
			return ','
		case ';':
			return ';'
		}
	}
	return ','
}
