package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/plasticlens/backend/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV parses the source table into products in row order.
// The first row is the header; each later row becomes one product keyed by
// header name. Short rows leave the missing fields empty and surplus cells
// are ignored.
func ParseCSV(data []byte) ([]domain.Product, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrMalformedDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrMalformedDataset, err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var products []domain.Product
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDataset, err)
		}
		products = append(products, domain.NewProduct(mapRow(headers, row)))
	}

	return products, nil
}

// mapRow pairs header names with cell values.
func mapRow(headers, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(row) {
			fields[h] = row[i]
		} else {
			fields[h] = ""
		}
	}
	return fields
}
