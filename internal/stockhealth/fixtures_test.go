package stockhealth

import "github.com/rdearco/nuel-supply-sight-tw/internal/domain"

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "P-1001", Name: "12mm Hex Bolt", SKU: "HEX-12-100", Warehouse: "BLR-A", Stock: 180, Demand: 120},
		{ID: "P-1002", Name: "Steel Washer", SKU: "WSR-08-500", Warehouse: "BLR-A", Stock: 50, Demand: 80},
		{ID: "P-1003", Name: "M8 Nut", SKU: "NUT-08-200", Warehouse: "PNQ-C", Stock: 80, Demand: 80},
		{ID: "P-1004", Name: "Bearing 608ZZ", SKU: "BRG-608-50", Warehouse: "DEL-B", Stock: 24, Demand: 120},
		{ID: "P-1005", Name: "10mm Socket Screw", SKU: "SCK-10-250", Warehouse: "BLR-A", Stock: 95, Demand: 75},
		{ID: "P-1006", Name: "Flat Washer 6mm", SKU: "FWS-06-300", Warehouse: "PNQ-C", Stock: 200, Demand: 150},
		{ID: "P-1007", Name: "Spring Lock Washer", SKU: "SLW-08-400", Warehouse: "DEL-B", Stock: 45, Demand: 90},
	}
}
