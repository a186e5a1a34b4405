package domain

import "github.com/shopspring/decimal"

// MarketEntry es una fila del listado de mercados de CoinGecko.
// Los montos se mantienen como decimal para que el payload re-serializado
// no sufra redondeos de punto flotante.
type MarketEntry struct {
	ID                       string           `json:"id"`
	Symbol                   string           `json:"symbol"`
	Name                     string           `json:"name"`
	Image                    string           `json:"image"`
	CurrentPrice             decimal.Decimal  `json:"current_price"`
	MarketCap                decimal.Decimal  `json:"market_cap"`
	MarketCapRank            int              `json:"market_cap_rank"`
	TotalVolume              decimal.Decimal  `json:"total_volume"`
	High24h                  *decimal.Decimal `json:"high_24h"`
	Low24h                   *decimal.Decimal `json:"low_24h"`
	PriceChange24h           *decimal.Decimal `json:"price_change_24h"`
	PriceChangePct1h         *decimal.Decimal `json:"price_change_percentage_1h_in_currency"`
	PriceChangePct24h        *decimal.Decimal `json:"price_change_percentage_24h_in_currency"`
	PriceChangePct7d         *decimal.Decimal `json:"price_change_percentage_7d_in_currency"`
	CirculatingSupply        *decimal.Decimal `json:"circulating_supply"`
	TotalSupply              *decimal.Decimal `json:"total_supply"`
	ATH                      *decimal.Decimal `json:"ath"`
	ATHChangePercentage      *decimal.Decimal `json:"ath_change_percentage"`
	LastUpdated              string           `json:"last_updated"`
}
