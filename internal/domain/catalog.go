package domain

import "github.com/shopspring/decimal"

// DefaultProperties is the catalog a fresh ledger starts with.
func DefaultProperties() []Property {
	return []Property{
		{
			ID:            "prop-polanco-lofts",
			Name:          "Polanco Lofts",
			Location:      "Ciudad de México, CDMX",
			Type:          "residential",
			Price:         decimal.NewFromInt(12500000),
			MinInvestment: decimal.NewFromInt(500),
			TotalShares:   25000,
			DailyReturn:   decimal.RequireFromString("0.0008"),
			Image:         "/images/properties/polanco-lofts.jpg",
		},
		{
			ID:            "prop-tulum-villas",
			Name:          "Tulum Beach Villas",
			Location:      "Tulum, Quintana Roo",
			Type:          "vacation",
			Price:         decimal.NewFromInt(8400000),
			MinInvestment: decimal.NewFromInt(1000),
			TotalShares:   8400,
			DailyReturn:   decimal.RequireFromString("0.0012"),
			Image:         "/images/properties/tulum-villas.jpg",
		},
		{
			ID:            "prop-monterrey-plaza",
			Name:          "Plaza Valle Oriente",
			Location:      "San Pedro Garza García, Nuevo León",
			Type:          "commercial",
			Price:         decimal.NewFromInt(30000000),
			MinInvestment: decimal.NewFromInt(2500),
			TotalShares:   60000,
			DailyReturn:   decimal.RequireFromString("0.0010"),
			Image:         "/images/properties/valle-oriente.jpg",
		},
		{
			ID:            "prop-guadalajara-hub",
			Name:          "Guadalajara Logistics Hub",
			Location:      "Zapopan, Jalisco",
			Type:          "industrial",
			Price:         decimal.NewFromInt(18000000),
			MinInvestment: decimal.NewFromInt(1500),
			TotalShares:   36000,
			DailyReturn:   decimal.RequireFromString("0.0009"),
			Image:         "/images/properties/gdl-hub.jpg",
		},
	}
}
