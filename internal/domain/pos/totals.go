package pos

import "github.com/shopspring/decimal"

// MoneyScale decimales que guardan las columnas de montos (NUMERIC(15,2)).
const MoneyScale = 2

// FitsMoneyScale indica si el monto se guarda sin redondeo.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// Line datos mínimos de una línea para calcular montos.
type Line struct {
	Qty           int
	PriceAtMoment decimal.Decimal
	MechanicFee   decimal.Decimal
}

// Subtotal = Qty × PriceAtMoment, en aritmética decimal exacta.
func Subtotal(qty int, priceAtMoment decimal.Decimal) decimal.Decimal {
	return priceAtMoment.Mul(decimal.NewFromInt(int64(qty)))
}

// Totals devuelve los subtotales por línea (mismo orden) y el total Σ subtotal.
func Totals(lines []Line) ([]decimal.Decimal, decimal.Decimal) {
	subtotals := make([]decimal.Decimal, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		subtotals[i] = Subtotal(l.Qty, l.PriceAtMoment)
		total = total.Add(subtotals[i])
	}
	return subtotals, total
}

// MechanicFees suma las comisiones de las líneas.
func MechanicFees(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.MechanicFee)
	}
	return sum
}
