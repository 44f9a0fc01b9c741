// Package document реализует расчёт денежных итогов по строкам документа
// (счёт, коммерческое предложение, выписка), выбор неоплаченных счетов для
// выписки и машину статусов документов. Все вычисления ведутся в
// decimal-арифметике без промежуточных округлений — округление выполняется
// только на границе отображения. Функции чистые, текущее время передаётся
// параметром.
package document

import "github.com/shopspring/decimal"

// LineItem строка документа. Amount всегда производное значение:
// пересчитывается из количества, цены и ставки налога и никогда не
// принимается из хранилища как источник истины.
type LineItem struct {
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

// Totals агрегаты документа, пересчитываемые из строк.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeLineAmount возвращает сумму строки с налогом:
// quantity * unitPrice * (1 + taxRatePercent/100).
// Отрицательные количество или цена не запрещаются — валидация входа
// остаётся на вызывающем слое, функция считает с тем, что дали.
func ComputeLineAmount(item LineItem) decimal.Decimal {
	net := item.Quantity.Mul(item.UnitPrice)
	tax := net.Mul(item.TaxRatePercent).Div(oneHundred)
	return net.Add(tax)
}

// ComputeDocumentTotals пересчитывает агрегаты документа по строкам.
// Пустой список строк даёт нулевые агрегаты, это не ошибка.
func ComputeDocumentTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	for _, item := range items {
		net := item.Quantity.Mul(item.UnitPrice)
		subtotal = subtotal.Add(net)
		taxAmount = taxAmount.Add(net.Mul(item.TaxRatePercent).Div(oneHundred))
	}
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}
