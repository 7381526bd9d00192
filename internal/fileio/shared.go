package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"catalog-matcher/internal/utils"
)

// ReadOrderList picks a reader by extension and returns the order list as
// raw text, one product per line ("name price").
func ReadOrderList(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", "":
		return readText(r)
	case ".csv":
		rows, err := readCSV(r)
		if err != nil {
			return "", err
		}
		return rowsToLines(rows), nil
	case ".xlsx":
		rows, err := readXLSX(r)
		if err != nil {
			return "", err
		}
		return rowsToLines(rows), nil
	case ".xls":
		rows, err := readXLS(r)
		if err != nil {
			return "", err
		}
		return rowsToLines(rows), nil
	default:
		return "", fmt.Errorf("unsupported file: %s", filename)
	}
}

// rowsToLines: first non-empty cell is the product, the last cell becomes
// the price when it parses as a number. Header and empty rows are dropped.
func rowsToLines(rows [][]string) string {
	var b strings.Builder
	for _, rec := range rows {
		cells := make([]string, 0, len(rec))
		for _, v := range rec {
			if v = normalizeCell(v); v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) == 0 || looksLikeHeader(cells) {
			continue
		}

		line := cells[0]
		if len(cells) > 1 {
			if f, ok := utils.ParseFloatBR(cells[len(cells)-1]); ok {
				line += " " + utils.FormatPriceBR(f)
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func looksLikeHeader(cells []string) bool {
	cnt := 0
	for _, v := range cells {
		s := strings.ToLower(v)
		if strings.Contains(s, "produto") || strings.Contains(s, "descri") ||
			strings.Contains(s, "preco") || strings.Contains(s, "preço") || strings.Contains(s, "valor") {
			cnt++
		}
	}
	return cnt >= 2
}

// normalizeCell trims and drops non-breaking spaces.
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
