package services

import (
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sale(product, category, price, seller, state string, purchased time.Time) models.SaleRecord {
	return models.SaleRecord{
		Product:      product,
		Category:     category,
		Price:        decimal.RequireFromString(price),
		Freight:      decimal.RequireFromString("10"),
		PurchaseDate: purchased,
		Seller:       seller,
		State:        state,
		Lat:          float64(len(state)),
		Lon:          -float64(len(state)),
		Rating:       4,
		PaymentType:  "cartao_credito",
		Installments: 1,
	}
}

// sampleRecords spans three states, two categories, three sellers and the
// months January to April 2021 with no sale in February.
func sampleRecords() []models.SaleRecord {
	recs := []models.SaleRecord{
		sale("Celular", "eletronicos", "1500.00", "Ana", "SP", date(2021, time.January, 5)),
		sale("Cadeira", "moveis", "300.00", "Bruno", "RJ", date(2021, time.January, 20)),
		sale("Mesa", "moveis", "700.00", "Ana", "SP", date(2021, time.March, 2)),
		sale("Notebook", "eletronicos", "4000.00", "Carla", "MG", date(2021, time.April, 30)),
		sale("Cadeira", "moveis", "300.00", "Bruno", "RJ", date(2021, time.April, 1)),
	}
	recs[2].Rating = 1
	recs[2].PaymentType = "boleto"
	recs[3].Installments = 10
	recs[3].Freight = decimal.RequireFromString("120.50")
	return recs
}
