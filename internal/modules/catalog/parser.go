package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// requiredColumns are the headers every catalog source must provide
var requiredColumns = []string{ColAssetClass, ColVintage, ColRegion, ColFundSize}

// ParseXLSX parses an Excel workbook into fund records.
// sheet selects the worksheet; the first sheet is used when empty.
func ParseXLSX(data []byte, sheet string) ([]FundRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	return parseRows(rows)
}

// ParseCSV parses a CSV export with the same header contract as the workbook
func ParseCSV(data []byte) ([]FundRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Ragged rows are handled by the column map

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	return parseRows(rows)
}

// parseRows maps a header row plus data rows into fund records
func parseRows(rows [][]string) ([]FundRecord, error) {
	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]FundRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		record, err := parseRecord(row, columns)
		if err != nil {
			// Row numbers are 1-based and include the header
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// mapColumns builds a header name -> column index map and checks required columns
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	return columns, nil
}

func parseRecord(row []string, columns map[string]int) (FundRecord, error) {
	assetClass := cell(row, columns, ColAssetClass)
	if assetClass == "" {
		return FundRecord{}, fmt.Errorf("empty %s", ColAssetClass)
	}

	vintage, err := strconv.Atoi(cell(row, columns, ColVintage))
	if err != nil {
		return FundRecord{}, fmt.Errorf("invalid %s: %w", ColVintage, err)
	}

	size, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, columns, ColFundSize), ",", ""), 64)
	if err != nil {
		return FundRecord{}, fmt.Errorf("invalid %s: %w", ColFundSize, err)
	}
	if size < 0 {
		return FundRecord{}, fmt.Errorf("negative %s: %v", ColFundSize, size)
	}

	return FundRecord{
		AssetClass: assetClass,
		Vintage:    vintage,
		Region:     cell(row, columns, ColRegion),
		FundSizeMn: size,
		NetIRR:     optionalFloat(cell(row, columns, MetricNetIRR)),
		NetTVPI:    optionalFloat(cell(row, columns, MetricNetTVPI)),
		NetDPI:     optionalFloat(cell(row, columns, MetricNetDPI)),
	}, nil
}

// cell returns the trimmed value of a named column, or "" when absent
func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// optionalFloat parses a metric cell. Blank or unparseable cells are missing,
// never zero, so they stay out of benchmark statistics.
func optionalFloat(value string) *float64 {
	if value == "" || strings.EqualFold(value, "n/a") {
		return nil
	}

	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func isBlankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
