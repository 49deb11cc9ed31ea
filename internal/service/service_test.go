package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bistro/internal/config"
	"bistro/internal/dto"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/service"
	"bistro/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test_access_token_secret_32_chars!"

var ctx = context.Background()

// ── Auth ──────────────────────────────────────────────────────────────────────

func TestIssueToken_SignsEmailWithOneHourExpiry(t *testing.T) {
	svc := service.NewAuthService(&config.Config{AccessTokenSecret: testSecret, JWTExpirationHours: 1})

	resp, err := svc.IssueToken(ctx, dto.TokenRequest{Email: "guest@example.com", Name: "Guest"})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", claims["email"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, 5*time.Second)
}

// ── Users ─────────────────────────────────────────────────────────────────────

func TestRegister_ExistingEmailIsNoop(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedUser("dup@example.com", "")
	svc := service.NewUserService(store.Users())

	resp, err := svc.Register(ctx, dto.CreateUserRequest{Email: "dup@example.com", Name: "Again"})
	require.NoError(t, err)
	assert.Nil(t, resp.InsertedID)
	assert.Equal(t, "User already Exists", resp.Message)
	assert.Equal(t, 1, store.UserCount())
}

func TestRegister_NewEmailInsertsWithoutRole(t *testing.T) {
	store := testutil.NewMemStore()
	svc := service.NewUserService(store.Users())

	resp, err := svc.Register(ctx, dto.CreateUserRequest{Email: "new@example.com", Name: "New"})
	require.NoError(t, err)
	require.NotNil(t, resp.InsertedID)
	assert.True(t, resp.Acknowledged)

	u, ok := store.UserByEmail("new@example.com")
	require.True(t, ok)
	assert.Empty(t, u.Role)
	assert.Equal(t, u.ID.Hex(), *resp.InsertedID)
}

func TestIsAdmin(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedUser("boss@example.com", model.RoleAdmin)
	store.SeedUser("guest@example.com", "")
	svc := service.NewUserService(store.Users())

	for email, want := range map[string]bool{
		"boss@example.com":    true,
		"guest@example.com":   false,
		"unknown@example.com": false,
	} {
		got, err := svc.IsAdmin(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, want, got, email)
	}
}

func TestIsAdmin_StoreFailureSurfaces(t *testing.T) {
	store := testutil.NewMemStore()
	store.FailUserLookup = errors.New("connection reset")
	_, err := service.NewUserService(store.Users()).IsAdmin(ctx, "x@example.com")
	assert.Error(t, err)
}

func TestAdminStatus_OtherEmailForbidden(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedUser("boss@example.com", model.RoleAdmin)
	svc := service.NewUserService(store.Users())

	_, err := svc.AdminStatus(ctx, "guest@example.com", "boss@example.com")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestPromoteAndDelete(t *testing.T) {
	store := testutil.NewMemStore()
	u := store.SeedUser("guest@example.com", "")
	svc := service.NewUserService(store.Users())

	up, err := svc.Promote(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), up.ModifiedCount)
	got, _ := store.UserByEmail("guest@example.com")
	assert.Equal(t, model.RoleAdmin, got.Role)

	del, err := svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)
	assert.Zero(t, store.UserCount())
}

func TestSeedAdmin_CreatesThenPromotes(t *testing.T) {
	store := testutil.NewMemStore()
	svc := service.NewUserService(store.Users())

	res, err := svc.SeedAdmin(ctx, "first@example.com", "First")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)
	assert.NotNil(t, res.UpsertedID)

	store.SeedUser("second@example.com", "")
	res, err = svc.SeedAdmin(ctx, "second@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	ok, _ := svc.IsAdmin(ctx, "second@example.com")
	assert.True(t, ok)
}

// ── Menu ──────────────────────────────────────────────────────────────────────

func TestMenuGet_MissingReturnsNil(t *testing.T) {
	store := testutil.NewMemStore()
	svc := service.NewMenuService(store.Menu(), nil, time.Minute)

	item, err := svc.Get(ctx, primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Nil(t, item)
}

func TestMenuUpdate_ReplacesAllFields(t *testing.T) {
	store := testutil.NewMemStore()
	it := store.SeedMenuItem("Soup", "soup", 4)
	svc := service.NewMenuService(store.Menu(), nil, time.Minute)

	res, err := svc.Update(ctx, it.ID, dto.MenuItemRequest{
		Name: "Tomato Soup", Price: decimal.RequireFromString("5.25"), Category: "soup",
		Recipe: "tomatoes", Image: "https://img.example.com/soup.png",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)

	got, err := svc.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", got.Name)
	assert.Equal(t, 5.25, got.Price)
	assert.Equal(t, "tomatoes", got.Recipe)
}

// ── Carts ─────────────────────────────────────────────────────────────────────

func TestCartList_OnlyOwnEmail(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedCartItem("a@example.com", "m1", 3)
	store.SeedCartItem("b@example.com", "m2", 4)
	svc := service.NewCartService(store.Carts())

	items, err := svc.List(ctx, "a@example.com", "a@example.com")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.List(ctx, "a@example.com", "b@example.com")
	assert.ErrorIs(t, err, service.ErrForbidden)

	// unguarded route
	items, err = svc.List(ctx, "", "b@example.com")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartRemove_ForeignItemForbidden(t *testing.T) {
	store := testutil.NewMemStore()
	c := store.SeedCartItem("b@example.com", "m2", 4)
	svc := service.NewCartService(store.Carts())

	_, err := svc.Remove(ctx, "a@example.com", c.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, 1, store.CartCount())

	res, err := svc.Remove(ctx, "b@example.com", c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
}

func TestCartRemove_MissingItemDeletesNothing(t *testing.T) {
	svc := service.NewCartService(testutil.NewMemStore().Carts())
	res, err := svc.Remove(ctx, "a@example.com", primitive.NewObjectID())
	require.NoError(t, err)
	assert.Zero(t, res.DeletedCount)
}

// ── Payments ──────────────────────────────────────────────────────────────────

func TestMinorUnits_TruncatesFractionalCents(t *testing.T) {
	cases := map[string]int64{
		"10":     1000,
		"19.99":  1999,
		"0.019":  1,
		"12.345": 1234,
		"0.29":   29, // 0.29*100 is 28.999… in binary floating point
	}
	for in, want := range cases {
		got, err := service.MinorUnits(decimal.RequireFromString(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestMinorUnits_RejectsUnrepresentableAmounts(t *testing.T) {
	// 184467440737095516.17 wraps to 1 cent if reduced modulo 2^64;
	// 1000000 is one cent over the processor maximum; 0.009 truncates to zero.
	for _, in := range []string{"184467440737095516.17", "1e20", "1000000", "0.009"} {
		_, err := service.MinorUnits(decimal.RequireFromString(in))
		assert.ErrorIs(t, err, service.ErrAmountOutOfRange, in)
	}

	got, err := service.MinorUnits(decimal.RequireFromString("999999.99"))
	require.NoError(t, err)
	assert.Equal(t, int64(service.MaxIntentMinorUnits), got)
}

func TestCreateIntent_OutOfRangeNeverReachesProcessor(t *testing.T) {
	proc := &testutil.StubProcessor{Secret: "pi_secret"}
	store := testutil.NewMemStore()
	svc := service.NewPaymentService(store.Payments(), store.Carts(), proc, nil)

	_, err := svc.CreateIntent(ctx, dto.PaymentIntentRequest{Price: decimal.RequireFromString("184467440737095516.17")})
	assert.ErrorIs(t, err, service.ErrAmountOutOfRange)
	assert.Empty(t, proc.Amounts)
}

func TestCreateIntent_UsesUSDAndCents(t *testing.T) {
	proc := &testutil.StubProcessor{Secret: "pi_secret"}
	store := testutil.NewMemStore()
	svc := service.NewPaymentService(store.Payments(), store.Carts(), proc, nil)

	resp, err := svc.CreateIntent(ctx, dto.PaymentIntentRequest{Price: decimal.RequireFromString("24.50")})
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", resp.ClientSecret)
	assert.Equal(t, []int64{2450}, proc.Amounts)
	assert.Equal(t, "usd", proc.Currency)
}

func TestCreateIntent_ProcessorError(t *testing.T) {
	proc := &testutil.StubProcessor{Err: errors.New("stripe down")}
	store := testutil.NewMemStore()
	svc := service.NewPaymentService(store.Payments(), store.Carts(), proc, nil)

	_, err := svc.CreateIntent(ctx, dto.PaymentIntentRequest{Price: decimal.NewFromInt(5)})
	assert.Error(t, err)
}

func TestRecord_DeletesPaidCartsAndQueuesReceipt(t *testing.T) {
	store := testutil.NewMemStore()
	a := store.SeedCartItem("guest@example.com", "m1", 2)
	b := store.SeedCartItem("guest@example.com", "m2", 3)
	keep := store.SeedCartItem("guest@example.com", "m3", 4)
	receipts := &testutil.ReceiptSpy{}
	svc := service.NewPaymentService(store.Payments(), store.Carts(), &testutil.StubProcessor{}, receipts)

	resp, err := svc.Record(ctx, "guest@example.com", dto.CreatePaymentRequest{
		Email: "guest@example.com", Price: decimal.NewFromInt(5), TransactionID: "pi_1",
		CartIDs: []string{a.ID.Hex(), b.ID.Hex()},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DeleteResult.DeletedCount)
	assert.NotEmpty(t, resp.PaymentResult.InsertedID)

	left, _ := store.Carts().ListByEmail(ctx, "guest@example.com")
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)
	assert.Equal(t, []string{resp.PaymentResult.InsertedID}, receipts.IDs)
}

func TestRecord_InvalidCartIDRejectedBeforeInsert(t *testing.T) {
	store := testutil.NewMemStore()
	svc := service.NewPaymentService(store.Payments(), store.Carts(), &testutil.StubProcessor{}, nil)

	_, err := svc.Record(ctx, "", dto.CreatePaymentRequest{
		Email: "guest@example.com", TransactionID: "pi_1", CartIDs: []string{"bogus"},
	})
	assert.ErrorIs(t, err, service.ErrInvalidID)
	assert.Zero(t, store.PaymentCount())
}

func TestRecord_OtherEmailForbidden(t *testing.T) {
	store := testutil.NewMemStore()
	svc := service.NewPaymentService(store.Payments(), store.Carts(), &testutil.StubProcessor{}, nil)

	_, err := svc.Record(ctx, "a@example.com", dto.CreatePaymentRequest{Email: "b@example.com", TransactionID: "pi"})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestRecord_CartCleanupFailureKeepsPayment(t *testing.T) {
	store := testutil.NewMemStore()
	c := store.SeedCartItem("guest@example.com", "m1", 2)
	store.FailCartDeleteMany = errors.New("write conflict")
	receipts := &testutil.ReceiptSpy{}
	svc := service.NewPaymentService(store.Payments(), store.Carts(), &testutil.StubProcessor{}, receipts)

	_, err := svc.Record(ctx, "guest@example.com", dto.CreatePaymentRequest{
		Email: "guest@example.com", TransactionID: "pi_1", CartIDs: []string{c.ID.Hex()},
	})
	assert.Error(t, err)
	assert.Equal(t, 1, store.PaymentCount(), "payment must persist without compensation")
	assert.Equal(t, 1, store.CartCount())
	assert.Empty(t, receipts.IDs)
}

func TestRecord_ReceiptQueueFailureDoesNotFailCheckout(t *testing.T) {
	store := testutil.NewMemStore()
	receipts := &testutil.ReceiptSpy{Err: errors.New("redis down")}
	svc := service.NewPaymentService(store.Payments(), store.Carts(), &testutil.StubProcessor{}, receipts)

	_, err := svc.Record(ctx, "guest@example.com", dto.CreatePaymentRequest{
		Email: "guest@example.com", TransactionID: "pi_1", CartIDs: []string{},
	})
	assert.NoError(t, err)
}

func TestHistory_ForeignEmailForbidden(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedPayment(model.Payment{Email: "b@example.com", Price: 10})
	svc := service.NewPaymentService(store.Payments(), store.Carts(), &testutil.StubProcessor{}, nil)

	_, err := svc.History(ctx, "a@example.com", "b@example.com")
	assert.ErrorIs(t, err, service.ErrForbidden)

	list, err := svc.History(ctx, "b@example.com", "b@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ── Stats ─────────────────────────────────────────────────────────────────────

func TestAdminStats_NoPaymentsRevenueZero(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedUser("boss@example.com", model.RoleAdmin)
	store.SeedMenuItem("Soup", "soup", 4)
	svc := service.NewStatsService(store.Users(), store.Menu(), store.Payments())

	stats, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.AdminStatsResponse{Users: 1, MenuItems: 1, Orders: 0, Revenue: 0}, stats)
}

func TestAdminStats_RevenueRoundedToCents(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedPayment(model.Payment{Price: 0.1})
	store.SeedPayment(model.Payment{Price: 0.2})
	svc := service.NewStatsService(store.Users(), store.Menu(), store.Payments())

	stats, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.3, stats.Revenue)
	assert.Equal(t, int64(2), stats.Orders)
}

func TestOrderStats_GroupsByCategory(t *testing.T) {
	store := testutil.NewMemStore()
	x := store.SeedMenuItem("Cola", "Drinks", 2)
	y := store.SeedMenuItem("Juice", "Drinks", 3)
	store.SeedPayment(model.Payment{MenuItemIDs: []primitive.ObjectID{x.ID, y.ID, primitive.NewObjectID()}})
	svc := service.NewStatsService(store.Users(), store.Menu(), store.Payments())

	rows, err := svc.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.OrderStat{{Category: "Drinks", Quantity: 2, Revenue: 5}}, rows)
}

var _ repository.PaymentRepository = testutil.NewMemStore().Payments()
