package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

func TestCreateAndReadCustomer(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")

	id, err := storage.CreateCustomer(ctx, models.Customer{
		Username: "testuser",
		Name:     "Acme GmbH",
		Email:    "billing@acme.example",
		Phone:    "+49 30 1234567",
		Address:  "Berlin, Unter den Linden 1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	customer, err := storage.ReadCustomer(ctx, id, "testuser")
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", customer.Name)
	assert.Equal(t, "billing@acme.example", customer.Email)
	assert.False(t, customer.IsDeleted)

	// Чужой пользователь не видит запись
	_, err = storage.ReadCustomer(ctx, id, "otheruser")
	assert.Error(t, err)
}

func TestSoftDeleteCustomerMovesSnapshotToBin(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	customerID := factory.CreateCustomer(t, "testuser", "Acme")

	count, err := storage.SoftDeleteCustomer(ctx, customerID, "testuser")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	verify.VerifySoftDeleted(t, "customers", customerID, true)
	verify.VerifyBinCount(t, "testuser", 1)

	// Удалённая запись исчезает из списка
	customers, err := storage.ListCustomers(ctx, "testuser", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestRestoreEntityClearsSoftDelete(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	customerID := factory.CreateCustomer(t, "testuser", "Acme")

	_, err := storage.SoftDeleteCustomer(ctx, customerID, "testuser")
	require.NoError(t, err)

	entries, err := storage.ListBinEntries(ctx, "testuser", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntityCustomer, entries[0].EntityType)
	assert.Equal(t, customerID, entries[0].EntityID)

	err = storage.RestoreEntity(ctx, entries[0])
	require.NoError(t, err)
	verify.VerifySoftDeleted(t, "customers", customerID, false)

	removed, err := storage.RemoveBinEntry(ctx, entries[0].ID, "testuser")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	verify.VerifyBinCount(t, "testuser", 0)
}

func TestPurgeExpiredEntriesDropsOriginals(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	oldCustomer := factory.CreateCustomer(t, "testuser", "Old")
	freshCustomer := factory.CreateCustomer(t, "testuser", "Fresh")

	now := time.Now().UTC()
	_, err := storage.DB.Exec(`UPDATE customers SET is_deleted = TRUE WHERE id IN ($1, $2)`,
		oldCustomer, freshCustomer)
	require.NoError(t, err)
	factory.CreateBinEntry(t, "testuser", models.EntityCustomer, oldCustomer,
		models.Customer{ID: oldCustomer}, now.Add(-8*24*time.Hour))
	factory.CreateBinEntry(t, "testuser", models.EntityCustomer, freshCustomer,
		models.Customer{ID: freshCustomer}, now.Add(-time.Hour))

	purged, err := storage.PurgeExpiredEntries(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	// Просроченная запись удалена физически, свежая осталась
	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM customers WHERE id = $1", oldCustomer).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	verify.VerifyBinCount(t, "testuser", 1)
}

func TestPurgeExpiredEntriesKeepsRestoredRows(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	customerID := factory.CreateCustomer(t, "testuser", "Restored")

	// Клиент восстановлен (is_deleted = FALSE), но запись корзины
	// осталась и уже просрочена: живая строка не должна удаляться
	now := time.Now().UTC()
	factory.CreateBinEntry(t, "testuser", models.EntityCustomer, customerID,
		models.Customer{ID: customerID}, now.Add(-8*24*time.Hour))

	purged, err := storage.PurgeExpiredEntries(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM customers WHERE id = $1", customerID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	verify.VerifyBinCount(t, "testuser", 0)
}

func TestListInvoicesForStatementBoundaries(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	customerID := factory.CreateCustomer(t, "testuser", "Acme")

	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	// Счёт в последний день периода, время после полуночи
	lastDay := factory.CreateInvoice(t, "testuser", customerID, "INV-1", "unpaid",
		time.Date(2025, 3, 31, 15, 30, 0, 0, time.UTC), periodEnd.AddDate(0, 0, 14), "100.00")
	// Оплаченный счёт в выборку кандидатов не попадает
	factory.CreateInvoice(t, "testuser", customerID, "INV-2", "paid",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), periodEnd, "50.00")
	// Счёт за пределами периода
	factory.CreateInvoice(t, "testuser", customerID, "INV-3", "unpaid",
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), periodEnd, "70.00")

	invoices, err := storage.ListInvoicesForStatement(ctx, "testuser", customerID, periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, lastDay, invoices[0].ID)
	assert.True(t, invoices[0].Total.Equal(decimal.RequireFromString("100.00")))
}

func TestFindUnpaidPastDueAndFlipStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	customerID := factory.CreateCustomer(t, "testuser", "Acme")

	now := time.Now().UTC()
	pastDue := factory.CreateInvoice(t, "testuser", customerID, "INV-1", "unpaid",
		now.AddDate(0, 0, -30), now.AddDate(0, 0, -1), "100.00")
	factory.CreateInvoice(t, "testuser", customerID, "INV-2", "unpaid",
		now, now.AddDate(0, 0, 14), "50.00")

	invoices, err := storage.FindUnpaidPastDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, pastDue, invoices[0].ID)

	count, err := storage.UpdateInvoiceStatus(ctx, pastDue, "testuser", document.InvoiceOverdue)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	verify.VerifyInvoiceStatus(t, pastDue, "overdue")
}

func TestFindSentPastValidUntil(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateUser(t, "testuser")
	customerID := factory.CreateCustomer(t, "testuser", "Acme")

	now := time.Now().UTC()
	expired := factory.CreateQuote(t, "testuser", customerID, "Q-1", "sent",
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -1))
	factory.CreateQuote(t, "testuser", customerID, "Q-2", "sent",
		now, now.AddDate(0, 0, 30))
	factory.CreateQuote(t, "testuser", customerID, "Q-3", "draft",
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -1))

	quotes, err := storage.FindSentPastValidUntil(ctx, now)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, expired, quotes[0].ID)
}

func TestRegisterAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	trialStart := time.Now().UTC()
	uid, err := storage.RegisterUser(ctx, models.User{
		Email:              "new@example.com",
		Username:           "newuser",
		PasswordHash:       "hashedpassword",
		Role:               "user",
		TrialStartDate:     &trialStart,
		SubscriptionStatus: "none",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	user, err := storage.GetUserByUsername(ctx, "newuser")
	require.NoError(t, err)
	assert.Equal(t, uid, user.UID)
	assert.Equal(t, "user", user.Role)
	require.NotNil(t, user.TrialStartDate)
	assert.WithinDuration(t, trialStart, *user.TrialStartDate, time.Second)

	periodEnd := trialStart.AddDate(0, 1, 0)
	err = storage.MarkSubscriber(ctx, uid, periodEnd)
	require.NoError(t, err)

	user, err = storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.True(t, user.IsSubscriber)
	assert.Equal(t, "active", user.SubscriptionStatus)

	err = storage.SetSuspended(ctx, uid, true)
	require.NoError(t, err)
	user, err = storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.True(t, user.IsSuspended)
}
