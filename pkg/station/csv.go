package station

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// Column headers of the OPIS truckstop price export.
const (
	colOpisID = "OPIS Truckstop ID"
	colName   = "Truckstop Name"
	colAddr   = "Address"
	colCity   = "City"
	colState  = "State"
	colRackID = "Rack ID"
	colPrice  = "Retail Price"
)

// LoadCSV reads the OPIS price export. Rows that fail to parse or
// normalize are logged and skipped rather than aborting the load. A
// non-positive limit reads everything.
func LoadCSV(r io.Reader, limit int) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colOpisID, colName, colAddr, colCity, colState, colRackID, colPrice} {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("csv missing column %q", required)
		}
	}

	records := make([]Record, 0)
	skipped := 0
	for {
		if limit > 0 && len(records) >= limit {
			break
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		rec, err := parseRow(row, colIdx)
		if err != nil {
			log.Printf("skipping station row: %v", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		log.Printf("loaded %d stations, skipped %d bad rows", len(records), skipped)
	}
	return records, nil
}

func LoadCSVFile(path string, limit int) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station csv: %w", err)
	}
	defer f.Close()
	return LoadCSV(f, limit)
}

func parseRow(row []string, colIdx map[string]int) (Record, error) {
	field := func(name string) string {
		idx := colIdx[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	opisID, err := strconv.ParseInt(strings.TrimSpace(field(colOpisID)), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse opis id %q: %w", field(colOpisID), err)
	}
	rackID, err := strconv.ParseInt(strings.TrimSpace(field(colRackID)), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse rack id %q: %w", field(colRackID), err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(field(colPrice)), 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse retail price %q: %w", field(colPrice), err)
	}

	rec := Record{
		OpisID:         opisID,
		Name:           field(colName),
		Address:        field(colAddr),
		City:           field(colCity),
		State:          field(colState),
		RackID:         rackID,
		PricePerGallon: price,
	}
	if err := rec.Normalize(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
