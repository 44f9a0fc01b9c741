package models

// DocumentEmailJob представляет задание на отправку документа клиенту
// по почте. Публикуется сервисом документов при отправке и потребляется
// воркером-отправителем. Все данные для письма собраны заранее, чтобы
// отправитель не ходил в базу.
type DocumentEmailJob struct {
	Username      string `json:"username"`       // Владелец документа
	DocumentType  string `json:"document_type"`  // invoice или quote
	DocumentID    int    `json:"document_id"`    // ID документа
	Number        string `json:"number"`         // Номер документа для темы письма
	CustomerName  string `json:"customer_name"`  // Имя клиента-получателя
	CustomerEmail string `json:"customer_email"` // Адрес получателя
	Total         string `json:"total"`          // Итоговая сумма строкой
	DueDate       string `json:"due_date"`       // Срок оплаты или действия, 02-01-2006
}

// TrialReminder представляет напоминание об окончании пробного периода.
type TrialReminder struct {
	Email    string `json:"email"`    // Адрес получателя
	Username string `json:"username"` // Имя пользователя для обращения
}
