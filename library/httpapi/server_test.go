package httpapi_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/checkoutbooks"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/renewloan"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/settlelatefee"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatesettings"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/borrowingeligibility"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/loandetail"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/memberloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-go/library/httpapi"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/library-circulation-go/testutil/memstore"
)

const testSecret = "test-secret"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testAPI struct {
	server  *httpapi.Server
	store   *memstore.Store
	ownerID uuid.UUID
	token   string
	now     time.Time
}

func givenAPI(t *testing.T, opts ...httpapi.Option) *testAPI {
	t.Helper()

	store := memstore.New()
	settings := shell.NewSettingsProvider(store)
	retry := []shell.RetryOption{shell.WithMaxAttempts(2), shell.WithBaseDelay(time.Millisecond)}

	api := &testAPI{store: store, ownerID: GivenUniqueID(t), now: FixedNow()}

	handlers := httpapi.Handlers{
		CheckoutBooks:        checkoutbooks.NewCommandHandler(store, settings, checkoutbooks.WithRetryOptions(retry...)),
		ReturnBook:           returnbook.NewCommandHandler(store, settings, returnbook.WithRetryOptions(retry...)),
		RenewLoan:            renewloan.NewCommandHandler(store, settings, renewloan.WithRetryOptions(retry...)),
		SettleLateFee:        settlelatefee.NewCommandHandler(store, settlelatefee.WithRetryOptions(retry...)),
		AddBook:              addbook.NewCommandHandler(store, addbook.WithRetryOptions(retry...)),
		RegisterMember:       registermember.NewCommandHandler(store, registermember.WithRetryOptions(retry...)),
		UpdateSettings:       updatesettings.NewCommandHandler(store, updatesettings.WithRetryOptions(retry...)),
		LoanDetail:           loandetail.NewQueryHandler(store, settings),
		CurrentLoanDetail:    loandetail.NewQueryHandler(store, settings, loandetail.WithStrongConsistency()),
		MemberLoans:          memberloans.NewQueryHandler(store, settings),
		OverdueLoans:         overdueloans.NewQueryHandler(store, settings),
		BorrowingEligibility: borrowingeligibility.NewQueryHandler(store, settings),
		Settings:             settings,
	}

	opts = append([]httpapi.Option{httpapi.WithClock(func() time.Time { return api.now })}, opts...)
	server, err := httpapi.New(handlers, testSecret, opts...)
	require.NoError(t, err)

	token, err := httpapi.IssueToken(testSecret, httpapi.Principal{
		OwnerID: api.ownerID,
		Role:    core.RoleLibrary,
		Actor:   "librarian@example.org",
	}, time.Hour, api.now)
	require.NoError(t, err)

	api.server = server
	api.token = token

	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func (a *testAPI) givenMemberAndBook(t *testing.T, stock int) (memberID, bookID string) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/v1/members", map[string]any{"name": "Ada Lovelace", "email": "ada@example.org"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	memberID = decode(t, rec)["id"].(string)

	rec = a.do(t, http.MethodPost, "/v1/books", map[string]any{"title": "Dune", "stock": stock, "price": "12.50"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookID = decode(t, rec)["id"].(string)

	return memberID, bookID
}

func (a *testAPI) givenCheckout(t *testing.T, memberID, bookID string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/v1/checkouts", map[string]any{"member_id": memberID, "book_ids": []string{bookID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	loanIDs := decode(t, rec)["loan_ids"].([]any)
	require.Len(t, loanIDs, 1)

	return loanIDs[0].(string)
}

func Test_New_RequiresSecret(t *testing.T) {
	// act
	_, err := httpapi.New(httpapi.Handlers{}, "")

	// assert
	assert.ErrorIs(t, err, httpapi.ErrMissingJWTSecret)
}

func Test_Authentication(t *testing.T) {
	api := givenAPI(t)

	wrongRole, err := httpapi.IssueToken(testSecret, httpapi.Principal{OwnerID: api.ownerID, Role: "Archive", Actor: "x"}, time.Hour, api.now)
	require.NoError(t, err)
	otherSecret, err := httpapi.IssueToken("other", httpapi.Principal{OwnerID: api.ownerID, Role: core.RoleLibrary, Actor: "x"}, time.Hour, api.now)
	require.NoError(t, err)
	expired, err := httpapi.IssueToken(testSecret, httpapi.Principal{OwnerID: api.ownerID, Role: core.RoleLibrary, Actor: "x"}, time.Hour, api.now.Add(-2*time.Hour))
	require.NoError(t, err)
	noActor, err := httpapi.IssueToken(testSecret, httpapi.Principal{OwnerID: api.ownerID, Role: core.RoleLibrary}, time.Hour, api.now)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "unknown role", token: wrongRole},
		{name: "wrong secret", token: otherSecret},
		{name: "expired", token: expired},
		{name: "no subject", token: noActor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			api.token = tc.token

			// act
			rec := api.do(t, http.MethodGet, "/v1/settings", nil)

			// assert
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHENTICATED", decode(t, rec)["code"])
		})
	}
}

func Test_CheckoutThenEligibilityAndMemberLoans(t *testing.T) {
	// arrange
	api := givenAPI(t)
	memberID, bookID := api.givenMemberAndBook(t, 1)

	// act
	rec := api.do(t, http.MethodPost, "/v1/checkouts", map[string]any{"member_id": memberID, "book_ids": []string{bookID}})

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Len(t, body["loan_ids"], 1)
	assert.Equal(t, "2024-01-25T10:00:00Z", body["due_date"])

	rec = api.do(t, http.MethodPost, "/v1/checkouts", map[string]any{"member_id": memberID, "book_ids": []string{bookID}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(core.CodeOutOfStock), decode(t, rec)["code"])

	rec = api.do(t, http.MethodGet, "/v1/members/"+memberID+"/eligibility?requested=5", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	eligibility := decode(t, rec)
	assert.Equal(t, false, eligibility["eligible"])
	assert.InDelta(t, 1, eligibility["borrowing_limit"].(map[string]any)["current"], 0)

	rec = api.do(t, http.MethodGet, "/v1/members/"+memberID+"/loans", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loans := decode(t, rec)
	assert.InDelta(t, 1, loans["active_count"], 0)
	assert.InDelta(t, 14, loans["loans"].([]any)[0].(map[string]any)["days_until_due"], 0)
}

func Test_ReturnRequiresFeeDispositionUnlessDeferred(t *testing.T) {
	// arrange
	api := givenAPI(t)
	memberID, bookID := api.givenMemberAndBook(t, 1)
	loanID := api.givenCheckout(t, memberID, bookID)
	api.now = api.now.AddDate(0, 0, 17)

	// act
	gated := api.do(t, http.MethodPost, "/v1/loans/"+loanID+"/return", map[string]any{"condition": "Good"})
	deferred := api.do(t, http.MethodPost, "/v1/loans/"+loanID+"/return", map[string]any{"condition": "Good", "defer_fee": true})

	// assert
	assert.Equal(t, http.StatusUnprocessableEntity, gated.Code)
	assert.Equal(t, string(core.CodeFeePaymentRequired), decode(t, gated)["code"])

	require.Equal(t, http.StatusOK, deferred.Code, deferred.Body.String())
	assert.Equal(t, "1.50", decode(t, deferred)["late_fee"])

	rec := api.do(t, http.MethodPost, "/v1/loans/"+loanID+"/fee", map[string]any{"disposition": "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["transaction_id"])

	rec = api.do(t, http.MethodGet, "/v1/loans/"+loanID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode(t, rec)
	assert.Equal(t, true, detail["fee_paid"])
	assert.Equal(t, "Returned", detail["status"])
	assert.Len(t, detail["transactions"], 2)

	rec = api.do(t, http.MethodPost, "/v1/loans/"+loanID+"/fee", map[string]any{"disposition": "waived"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(core.CodeFeeAlreadySettled), decode(t, rec)["code"])
}

func Test_RenewAndOverdueList(t *testing.T) {
	// arrange
	api := givenAPI(t)
	memberID, bookID := api.givenMemberAndBook(t, 1)
	loanID := api.givenCheckout(t, memberID, bookID)
	api.now = api.now.AddDate(0, 0, 16)

	// act
	overdue := api.do(t, http.MethodGet, "/v1/loans/overdue", nil)
	renewed := api.do(t, http.MethodPost, "/v1/loans/"+loanID+"/renew", map[string]any{"extension_days": 7})
	afterRenewal := api.do(t, http.MethodGet, "/v1/loans/overdue", nil)

	// assert
	require.Equal(t, http.StatusOK, overdue.Code, overdue.Body.String())
	assert.InDelta(t, 1, decode(t, overdue)["count"], 0)
	assert.Equal(t, "1.00", decode(t, overdue)["total_accrued_fee"])

	require.Equal(t, http.StatusOK, renewed.Code, renewed.Body.String())
	assert.InDelta(t, 1, decode(t, renewed)["renewal_count"], 0)
	assert.InDelta(t, 5, decode(t, renewed)["days_until_due"], 0)

	assert.InDelta(t, 0, decode(t, afterRenewal)["count"], 0)
}

func Test_ErrorMapping(t *testing.T) {
	api := givenAPI(t)

	testCases := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name: "validation", method: http.MethodPost, path: "/v1/checkouts",
			body:       map[string]any{"member_id": "not-a-uuid", "book_ids": []string{}},
			wantStatus: http.StatusUnprocessableEntity, wantCode: string(core.CodeInvalidCommand),
		},
		{
			name: "unknown loan", method: http.MethodGet, path: "/v1/loans/" + uuid.NewString(),
			wantStatus: http.StatusNotFound, wantCode: string(core.CodeLoanNotFound),
		},
		{
			name: "unknown member", method: http.MethodGet, path: "/v1/members/" + uuid.NewString() + "/loans",
			wantStatus: http.StatusNotFound, wantCode: string(core.CodeMemberNotFound),
		},
		{
			name: "invalid settings", method: http.MethodPut, path: "/v1/settings",
			body:       map[string]any{"daily_late_fee_rate": "0.5", "borrowing_limit": 0, "unpaid_fee_loan_limit": 1, "default_loan_days": 14},
			wantStatus: http.StatusUnprocessableEntity, wantCode: string(core.CodeInvalidSettings),
		},
		{
			name: "unknown route", method: http.MethodGet, path: "/v1/nothing",
			wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			rec := api.do(t, tc.method, tc.path, tc.body)

			// assert
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantCode, decode(t, rec)["code"])
		})
	}
}

func Test_MalformedJSONIsBadRequest(t *testing.T) {
	// arrange
	api := givenAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/members", bytes.NewReader([]byte(`{"name":`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+api.token)
	rec := httptest.NewRecorder()

	// act
	api.server.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode(t, rec)["code"])
}

func Test_ConflictAfterRetriesIsConflict(t *testing.T) {
	// arrange
	api := givenAPI(t)
	memberID, bookID := api.givenMemberAndBook(t, 1)
	api.store.FailNextCommits(circulation.ErrConcurrencyConflict, circulation.ErrConcurrencyConflict)

	// act
	rec := api.do(t, http.MethodPost, "/v1/checkouts", map[string]any{"member_id": memberID, "book_ids": []string{bookID}})

	// assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONCURRENCY_CONFLICT", decode(t, rec)["code"])
}

func Test_ConflictResponseHidesStoreDetails(t *testing.T) {
	// arrange
	api := givenAPI(t)
	memberID, bookID := api.givenMemberAndBook(t, 1)
	storeErr := errors.Join(
		errors.New(`update books: pq: duplicate key value violates unique constraint "books_pkey"`),
		circulation.ErrConcurrencyConflict,
	)
	api.store.FailNextCommits(storeErr, storeErr)

	// act
	rec := api.do(t, http.MethodPost, "/v1/checkouts", map[string]any{"member_id": memberID, "book_ids": []string{bookID}})

	// assert
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "CONCURRENCY_CONFLICT", body["code"])
	assert.Equal(t, circulation.ErrConcurrencyConflict.Error(), body["error"])
	assert.NotContains(t, body["error"], "books_pkey")
}

func Test_Settings_DefaultsThenUpdate(t *testing.T) {
	// arrange
	api := givenAPI(t)

	// act
	defaults := api.do(t, http.MethodGet, "/v1/settings", nil)
	updated := api.do(t, http.MethodPut, "/v1/settings", map[string]any{
		"daily_late_fee_rate":   "0.25",
		"grace_period_days":     1,
		"max_late_fee_cap":      "20",
		"max_renewals_per_loan": 3,
		"borrowing_limit":       10,
		"unpaid_fee_loan_limit": 2,
		"default_loan_days":     21,
	})

	// assert
	require.Equal(t, http.StatusOK, defaults.Code)
	assert.Equal(t, "0.50", decode(t, defaults)["daily_late_fee_rate"])
	assert.InDelta(t, 5, decode(t, defaults)["borrowing_limit"], 0)

	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	body := decode(t, updated)
	assert.Equal(t, "0.25", body["daily_late_fee_rate"])
	assert.InDelta(t, 21, body["default_loan_days"], 0)
	assert.NotEmpty(t, body["updated_at"])
}

func Test_HealthAndMetrics(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "circulation_test_total", Help: "test"}))

	healthy := true
	api := givenAPI(t,
		httpapi.WithMetricsGatherer(registry),
		httpapi.WithHealthCheck(func(context.Context) error {
			if healthy {
				return nil
			}

			return errors.New("database unreachable")
		}),
	)
	api.token = ""

	// act
	up := api.do(t, http.MethodGet, "/health", nil)
	healthy = false
	down := api.do(t, http.MethodGet, "/health", nil)
	metrics := api.do(t, http.MethodGet, "/metrics", nil)

	// assert
	assert.Equal(t, http.StatusOK, up.Code)
	assert.Equal(t, http.StatusServiceUnavailable, down.Code)
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "circulation_test_total")
}
