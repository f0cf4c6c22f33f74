// Package market holds the records produced by a single extraction pass.
package market

import "time"

// Field names in their fixed export order.
const (
	FieldName              = "name"
	FieldSymbol            = "symbol"
	FieldPrice             = "price"
	FieldChange24h         = "change24h"
	FieldChange7d          = "change7d"
	FieldMarketCap         = "market_cap"
	FieldVolume24h         = "volume24h"
	FieldCirculatingSupply = "circulating_supply"
)

// Fields lists every Coin field name in the order used by flat exports.
var Fields = []string{
	FieldName,
	FieldSymbol,
	FieldPrice,
	FieldChange24h,
	FieldChange7d,
	FieldMarketCap,
	FieldVolume24h,
	FieldCirculatingSupply,
}

// Coin is one row of the listing, every field may be independently absent.
type Coin struct {
	Name              Value[string]
	Symbol            Value[string]
	Price             Value[float64]
	Change24h         Value[float64]
	Change7d          Value[float64]
	MarketCap         Value[int64]
	Volume24h         Value[int64]
	CirculatingSupply Value[int64]
}

// Key returns the natural key of the coin, ok is false if either half is absent.
func (c Coin) Key() (name, symbol string, ok bool) {
	name, nameOk := c.Name.Get()
	symbol, symbolOk := c.Symbol.Get()
	return name, symbol, nameOk && symbolOk
}

// Row renders the coin in the order of Fields.
func (c Coin) Row() []string {
	return []string{
		c.Name.String(),
		c.Symbol.String(),
		c.Price.String(),
		c.Change24h.String(),
		c.Change7d.String(),
		c.MarketCap.String(),
		c.Volume24h.String(),
		c.CirculatingSupply.String(),
	}
}

// AbsentCount returns how many fields of the coin could not be parsed.
func (c Coin) AbsentCount() int {
	count := 0
	for _, absent := range []bool{
		c.Name.IsAbsent(),
		c.Symbol.IsAbsent(),
		c.Price.IsAbsent(),
		c.Change24h.IsAbsent(),
		c.Change7d.IsAbsent(),
		c.MarketCap.IsAbsent(),
		c.Volume24h.IsAbsent(),
		c.CirculatingSupply.IsAbsent(),
	} {
		if absent {
			count++
		}
	}
	return count
}

// Batch is the output of one extraction pass, Coins[i] is market rank i+1 at Time.
type Batch struct {
	Time  time.Time
	Coins []Coin
}
