package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names as served by the upstream API. The order is the canonical
// column order of exported tables.
const (
	ColumnProduct      = "Produto"
	ColumnCategory     = "Categoria do Produto"
	ColumnPrice        = "Preço"
	ColumnFreight      = "Frete"
	ColumnPurchaseDate = "Data da Compra"
	ColumnSeller       = "Vendedor"
	ColumnState        = "Local da compra"
	ColumnLat          = "lat"
	ColumnLon          = "lon"
	ColumnRating       = "Avaliação da compra"
	ColumnPaymentType  = "Tipo de pagamento"
	ColumnInstallments = "Quantidade de parcelas"
)

var Columns = []string{
	ColumnProduct,
	ColumnCategory,
	ColumnPrice,
	ColumnFreight,
	ColumnPurchaseDate,
	ColumnSeller,
	ColumnState,
	ColumnLat,
	ColumnLon,
	ColumnRating,
	ColumnPaymentType,
	ColumnInstallments,
}

// PurchaseDateLayout is the layout of the purchase date column upstream.
const PurchaseDateLayout = "02/01/2006"

const (
	MaxRating       = 5
	MaxInstallments = 24
)

type SaleRecord struct {
	Product      string          `json:"product"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Freight      decimal.Decimal `json:"freight"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Seller       string          `json:"seller"`
	State        string          `json:"state"`
	Lat          float64         `json:"lat"`
	Lon          float64         `json:"lon"`
	Rating       int             `json:"rating"`
	PaymentType  string          `json:"payment_type"`
	Installments int             `json:"installments"`
}
