package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
)

// SeedWarehouses are the warehouse codes of the built-in dataset.
var SeedWarehouses = []string{"BLR-A", "PNQ-C", "DEL-B"}

// SeedProducts returns a fresh copy of the built-in dataset.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: "P-1001", Name: "12mm Hex Bolt", SKU: "HEX-12-100", Warehouse: "BLR-A", Stock: 180, Demand: 120},
		{ID: "P-1002", Name: "Steel Washer", SKU: "WSR-08-500", Warehouse: "BLR-A", Stock: 50, Demand: 80},
		{ID: "P-1003", Name: "M8 Nut", SKU: "NUT-08-200", Warehouse: "PNQ-C", Stock: 80, Demand: 80},
		{ID: "P-1004", Name: "Bearing 608ZZ", SKU: "BRG-608-50", Warehouse: "DEL-B", Stock: 24, Demand: 120},
		{ID: "P-1005", Name: "10mm Socket Screw", SKU: "SCK-10-250", Warehouse: "BLR-A", Stock: 95, Demand: 75},
		{ID: "P-1006", Name: "Flat Washer 6mm", SKU: "FWS-06-300", Warehouse: "PNQ-C", Stock: 200, Demand: 150},
		{ID: "P-1007", Name: "Spring Lock Washer", SKU: "SLW-08-400", Warehouse: "DEL-B", Stock: 45, Demand: 90},
		{ID: "P-1008", Name: "Torx Bolt T20", SKU: "TRX-T20-150", Warehouse: "BLR-A", Stock: 120, Demand: 100},
		{ID: "P-1009", Name: "Rubber Gasket 25mm", SKU: "GSK-25-100", Warehouse: "PNQ-C", Stock: 30, Demand: 60},
		{ID: "P-1010", Name: "Allen Key 4mm", SKU: "ALK-04-80", Warehouse: "DEL-B", Stock: 65, Demand: 45},
		{ID: "P-1011", Name: "Wing Nut M10", SKU: "WNG-10-120", Warehouse: "BLR-A", Stock: 85, Demand: 85},
		{ID: "P-1012", Name: "Machine Screw 8mm", SKU: "MSC-08-300", Warehouse: "PNQ-C", Stock: 140, Demand: 110},
		{ID: "P-1013", Name: "Thumb Screw M6", SKU: "THM-06-90", Warehouse: "DEL-B", Stock: 20, Demand: 70},
		{ID: "P-1014", Name: "Carriage Bolt 12mm", SKU: "CAR-12-200", Warehouse: "BLR-A", Stock: 160, Demand: 130},
	}
}

var seedHeader = []string{"id", "name", "sku", "warehouse", "stock", "demand"}

// LoadSeed returns the built-in dataset when path is empty, otherwise the
// rows of the CSV file at path.
func LoadSeed(path string) ([]domain.Product, error) {
	if strings.TrimSpace(path) == "" {
		return SeedProducts(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return ReadSeedCSV(f)
}

// ReadSeedCSV parses rows with the header id,name,sku,warehouse,stock,demand.
// Columns may appear in any order; header matching is case-insensitive.
func ReadSeedCSV(r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("seed csv is empty")
		}
		return nil, fmt.Errorf("read seed header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range seedHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("seed csv: missing column %q", name)
		}
	}

	var products []domain.Product
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read seed line %d: %w", line, err)
		}

		stock, err := strconv.Atoi(strings.TrimSpace(record[cols["stock"]]))
		if err != nil {
			return nil, fmt.Errorf("seed line %d: invalid stock: %w", line, err)
		}
		demand, err := strconv.Atoi(strings.TrimSpace(record[cols["demand"]]))
		if err != nil {
			return nil, fmt.Errorf("seed line %d: invalid demand: %w", line, err)
		}

		products = append(products, domain.Product{
			ID:        strings.TrimSpace(record[cols["id"]]),
			Name:      strings.TrimSpace(record[cols["name"]]),
			SKU:       strings.TrimSpace(record[cols["sku"]]),
			Warehouse: strings.TrimSpace(record[cols["warehouse"]]),
			Stock:     stock,
			Demand:    demand,
		})
	}

	return products, nil
}
