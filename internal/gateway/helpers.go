package gateway

import (
	"strconv"

	"github.com/shopspring/decimal"
)

func parseDecimalOrDefault(s, def string) (decimal.Decimal, error) {
	if s == "" {
		s = def
	}
	return decimal.NewFromString(s)
}

func atoiOrDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
