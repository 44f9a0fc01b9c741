package document

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StatementInvoice срез полей счёта, достаточный для формирования выписки.
// Слой хранения отображает свою модель счёта в эту структуру, сам пакет
// к хранилищу не обращается.
type StatementInvoice struct {
	ID         int
	CustomerID string
	Status     InvoiceStatus
	Date       time.Time
	Total      decimal.Decimal
}

// StatementSummary агрегат по отобранным счетам для отображения.
type StatementSummary struct {
	TotalOutstanding decimal.Decimal
	Count            int
}

// SelectUnpaidInvoicesForStatement отбирает неоплаченные и просроченные
// счета клиента за период. Граница periodEnd включающая: сравнение идёт
// с концом календарного дня, иначе счёт, выставленный в день окончания
// периода, молча выпал бы из выписки. Результат отсортирован по дате,
// при равенстве дат по ID.
func SelectUnpaidInvoicesForStatement(invoices []StatementInvoice, customerID string, periodStart, periodEnd time.Time) []StatementInvoice {
	end := endOfDay(periodEnd)
	selected := make([]StatementInvoice, 0)
	for _, inv := range invoices {
		if inv.CustomerID != customerID {
			continue
		}
		if !IsOutstanding(inv.Status) {
			continue
		}
		if inv.Date.Before(periodStart) || inv.Date.After(end) {
			continue
		}
		selected = append(selected, inv)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		if !selected[i].Date.Equal(selected[j].Date) {
			return selected[i].Date.Before(selected[j].Date)
		}
		return selected[i].ID < selected[j].ID
	})
	return selected
}

// SummarizeStatement считает сумму задолженности и количество счетов.
func SummarizeStatement(selected []StatementInvoice) StatementSummary {
	total := decimal.Zero
	for _, inv := range selected {
		total = total.Add(inv.Total)
	}
	return StatementSummary{TotalOutstanding: total, Count: len(selected)}
}

// endOfDay возвращает последний наносекундный момент календарного дня t.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
