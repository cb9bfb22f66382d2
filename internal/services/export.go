package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const csvExtension = ".csv"

// TableFromRecords projects records onto columns, kept in canonical
// column order. A nil columns slice selects every column.
func TableFromRecords(records []models.SaleRecord, columns []string) (models.Table, error) {
	selected, err := selectColumns(columns)
	if err != nil {
		return models.Table{}, err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(selected))
		for i, col := range selected {
			row[i] = cellValue(rec, col)
		}
		rows = append(rows, row)
	}
	return models.Table{Columns: selected, Rows: rows}, nil
}

func selectColumns(columns []string) ([]string, error) {
	if columns == nil {
		return append([]string(nil), models.Columns...), nil
	}

	wanted := make(map[string]bool, len(columns))
	for _, c := range columns {
		wanted[c] = true
	}

	selected := make([]string, 0, len(columns))
	for _, c := range models.Columns {
		if wanted[c] {
			selected = append(selected, c)
			delete(wanted, c)
		}
	}
	for c := range wanted {
		return nil, errors.Validation(fmt.Sprintf("unknown column %q", c))
	}
	return selected, nil
}

func cellValue(rec models.SaleRecord, column string) string {
	switch column {
	case models.ColumnProduct:
		return rec.Product
	case models.ColumnCategory:
		return rec.Category
	case models.ColumnPrice:
		return rec.Price.String()
	case models.ColumnFreight:
		return rec.Freight.String()
	case models.ColumnPurchaseDate:
		return rec.PurchaseDate.Format(time.DateOnly)
	case models.ColumnSeller:
		return rec.Seller
	case models.ColumnState:
		return rec.State
	case models.ColumnLat:
		return strconv.FormatFloat(rec.Lat, 'f', -1, 64)
	case models.ColumnLon:
		return strconv.FormatFloat(rec.Lon, 'f', -1, 64)
	case models.ColumnRating:
		return strconv.Itoa(rec.Rating)
	case models.ColumnPaymentType:
		return rec.PaymentType
	case models.ColumnInstallments:
		return strconv.Itoa(rec.Installments)
	default:
		return ""
	}
}

// ExportFilename appends the .csv extension when missing. A blank name
// falls back to fallback.
func ExportFilename(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	if !strings.HasSuffix(strings.ToLower(name), csvExtension) {
		name += csvExtension
	}
	return name
}

// CSVEncoder encodes tables to CSV and memoizes the result by table
// value for the lifetime of the process. The cache is never evicted.
type CSVEncoder struct {
	mu     sync.RWMutex
	cache  map[string][]byte
	hits   atomic.Int64
	misses atomic.Int64
}

type EncoderStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

func NewCSVEncoder() *CSVEncoder {
	return &CSVEncoder{cache: make(map[string][]byte)}
}

// Encode returns the UTF-8 CSV encoding of table with a header row. The
// returned bytes may be shared with other callers and must not be
// modified.
func (e *CSVEncoder) Encode(table models.Table) ([]byte, error) {
	key, err := tableKey(table)
	if err != nil {
		return nil, errors.EncodingWrap(err, "hash table")
	}

	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		e.hits.Add(1)
		return cached, nil
	}

	encoded, err := encodeCSV(table)
	if err != nil {
		return nil, errors.EncodingWrap(err, "encode csv")
	}

	e.mu.Lock()
	if existing, ok := e.cache[key]; ok {
		encoded = existing
	} else {
		e.cache[key] = encoded
	}
	e.mu.Unlock()

	e.misses.Add(1)
	return encoded, nil
}

func (e *CSVEncoder) Stats() EncoderStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EncoderStats{
		Hits:    e.hits.Load(),
		Misses:  e.misses.Load(),
		Entries: len(e.cache),
	}
}

func tableKey(table models.Table) (string, error) {
	h := sha256.New()
	if err := gob.NewEncoder(h).Encode(table); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func encodeCSV(table models.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.Columns); err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(table.Columns))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
