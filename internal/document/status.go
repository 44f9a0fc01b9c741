package document

// InvoiceStatus статус счёта. Выставленный счёт хранится со статусом
// "unpaid" — именно это значение (вместе с "overdue") участвует в отборе
// счетов для выписки. Из "paid" переходов нет.
type InvoiceStatus string

const (
	// InvoiceDraft черновик, клиенту не отправлялся.
	InvoiceDraft InvoiceStatus = "draft"
	// InvoiceUnpaid выставлен и ожидает оплаты.
	InvoiceUnpaid InvoiceStatus = "unpaid"
	// InvoicePaid оплачен, терминальный статус.
	InvoicePaid InvoiceStatus = "paid"
	// InvoiceOverdue срок оплаты прошёл. Переход выполняется внешним
	// планировщиком, пакет только проверяет его допустимость.
	InvoiceOverdue InvoiceStatus = "overdue"
)

// QuoteStatus статус коммерческого предложения.
// Accepted, rejected и expired терминальные.
type QuoteStatus string

const (
	// QuoteDraft черновик.
	QuoteDraft QuoteStatus = "draft"
	// QuoteSent отправлено клиенту.
	QuoteSent QuoteStatus = "sent"
	// QuoteAccepted принято клиентом.
	QuoteAccepted QuoteStatus = "accepted"
	// QuoteRejected отклонено клиентом.
	QuoteRejected QuoteStatus = "rejected"
	// QuoteExpired истёк срок действия.
	QuoteExpired QuoteStatus = "expired"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoiceUnpaid},
	InvoiceUnpaid:  {InvoicePaid, InvoiceOverdue},
	InvoiceOverdue: {InvoicePaid},
}

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft: {QuoteSent},
	QuoteSent:  {QuoteAccepted, QuoteRejected, QuoteExpired},
}

// CanTransitionInvoice сообщает, допустим ли переход статуса счёта.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionQuote сообщает, допустим ли переход статуса предложения.
func CanTransitionQuote(from, to QuoteStatus) bool {
	for _, next := range quoteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsOutstanding сообщает, ожидает ли счёт оплаты.
func IsOutstanding(status InvoiceStatus) bool {
	return status == InvoiceUnpaid || status == InvoiceOverdue
}
