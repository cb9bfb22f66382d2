package datasource

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// rawSale mirrors one element of the upstream JSON array. Pointer fields
// let toRecord tell a missing field apart from a zero value.
type rawSale struct {
	Product      *string          `json:"Produto"`
	Category     *string          `json:"Categoria do Produto"`
	Price        *decimal.Decimal `json:"Preço"`
	Freight      *decimal.Decimal `json:"Frete"`
	PurchaseDate *string          `json:"Data da Compra"`
	Seller       *string          `json:"Vendedor"`
	State        *string          `json:"Local da compra"`
	Lat          *float64         `json:"lat"`
	Lon          *float64         `json:"lon"`
	Rating       *int             `json:"Avaliação da compra"`
	PaymentType  *string          `json:"Tipo de pagamento"`
	Installments *int             `json:"Quantidade de parcelas"`
}

func (r rawSale) toRecord() (models.SaleRecord, error) {
	missing := func(column string) error {
		return fmt.Errorf("missing field %q", column)
	}

	switch {
	case r.Product == nil:
		return models.SaleRecord{}, missing(models.ColumnProduct)
	case r.Category == nil:
		return models.SaleRecord{}, missing(models.ColumnCategory)
	case r.Price == nil:
		return models.SaleRecord{}, missing(models.ColumnPrice)
	case r.Freight == nil:
		return models.SaleRecord{}, missing(models.ColumnFreight)
	case r.PurchaseDate == nil:
		return models.SaleRecord{}, missing(models.ColumnPurchaseDate)
	case r.Seller == nil:
		return models.SaleRecord{}, missing(models.ColumnSeller)
	case r.State == nil:
		return models.SaleRecord{}, missing(models.ColumnState)
	case r.Lat == nil:
		return models.SaleRecord{}, missing(models.ColumnLat)
	case r.Lon == nil:
		return models.SaleRecord{}, missing(models.ColumnLon)
	case r.Rating == nil:
		return models.SaleRecord{}, missing(models.ColumnRating)
	case r.PaymentType == nil:
		return models.SaleRecord{}, missing(models.ColumnPaymentType)
	case r.Installments == nil:
		return models.SaleRecord{}, missing(models.ColumnInstallments)
	}

	date, err := time.Parse(models.PurchaseDateLayout, *r.PurchaseDate)
	if err != nil {
		return models.SaleRecord{}, fmt.Errorf("parse %q: %w", models.ColumnPurchaseDate, err)
	}

	if *r.Rating < 0 || *r.Rating > models.MaxRating {
		return models.SaleRecord{}, fmt.Errorf("%q out of range: %d", models.ColumnRating, *r.Rating)
	}
	if *r.Installments < 0 || *r.Installments > models.MaxInstallments {
		return models.SaleRecord{}, fmt.Errorf("%q out of range: %d", models.ColumnInstallments, *r.Installments)
	}

	return models.SaleRecord{
		Product:      *r.Product,
		Category:     *r.Category,
		Price:        *r.Price,
		Freight:      *r.Freight,
		PurchaseDate: date,
		Seller:       *r.Seller,
		State:        *r.State,
		Lat:          *r.Lat,
		Lon:          *r.Lon,
		Rating:       *r.Rating,
		PaymentType:  *r.PaymentType,
		Installments: *r.Installments,
	}, nil
}
