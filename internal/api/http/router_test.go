package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/report"
	"bloodlink-backend/internal/security"
	"bloodlink-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

type apiFixture struct {
	requests  *MockRequestService
	profiles  *MockProfileService
	inventory *MockInventoryService
	notes     *MockNotificationService
	tokens    security.TokenManager
	metrics   *metrics.Metrics
	router    *mux.Router
}

func newAPIFixture(db Pinger) *apiFixture {
	f := &apiFixture{
		requests:  new(MockRequestService),
		profiles:  new(MockProfileService),
		inventory: new(MockInventoryService),
		notes:     new(MockNotificationService),
		tokens:    security.NewTokenManager(testSecret, time.Hour),
		metrics:   metrics.New(),
	}
	f.router = NewRouter(Services{
		Requests:      f.requests,
		Profiles:      f.profiles,
		Inventory:     f.inventory,
		Notifications: f.notes,
	}, f.tokens, f.metrics, db)
	return f
}

// call sends an authenticated request; userID 0 sends none.
func (f *apiFixture) call(t *testing.T, method, path string, userID int32, role domain.UserRole, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := f.tokens.GenerateAccessToken(userID, "user@example.com", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPublicRoutes(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		f := newAPIFixture(fakePinger{})
		rec := f.call(t, http.MethodGet, "/healthz", 0, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("HealthDatabaseDown", func(t *testing.T) {
		f := newAPIFixture(fakePinger{err: errors.New("connection refused")})
		rec := f.call(t, http.MethodGet, "/healthz", 0, "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.call(t, http.MethodGet, "/healthz", 0, "", nil)
		rec := f.call(t, http.MethodGet, "/metrics", 0, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "bloodlink_http_request_duration_seconds")
		// One series for /healthz and one for the /metrics call itself.
		assert.Equal(t, 2, testutil.CollectAndCount(f.metrics.HTTPDuration))
	})

	t.Run("RequestIDEchoed", func(t *testing.T) {
		f := newAPIFixture(nil)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

		rec = f.call(t, http.MethodGet, "/healthz", 0, "", nil)
		assert.Len(t, rec.Header().Get(requestIDHeader), 36)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodGet, "/api/v1/nowhere", 0, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodGet, "/api/v1/requests", 0, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		f := newAPIFixture(nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ForeignSecret", func(t *testing.T) {
		f := newAPIFixture(nil)
		other := security.NewTokenManager("another-secret-of-at-least-32-chars!", time.Hour)
		token, err := other.GenerateAccessToken(1, "a@example.com", domain.UserRoleAdmin)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/requests/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.requests.AssertNotCalled(t, "DeleteRequest", mock.Anything, mock.Anything)
	})

	t.Run("RoleDenied", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodPost, "/api/v1/requests", 50, domain.UserRoleDonor, map[string]any{"blood_group": "A+", "quantity": 1})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		f.requests.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreateRequestHandler(t *testing.T) {
	t.Run("RecipientFilesForSelf", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("CreateRequest", mock.Anything, int32(10), "A+", int32(2)).
			Return(&domain.BloodRequest{ID: 100, BloodGroupNeeded: domain.BloodGroupAPos, Quantity: 2, Status: domain.RequestStatusPending}, nil)

		rec := f.call(t, http.MethodPost, "/api/v1/requests", 10, domain.UserRoleRecipient, map[string]any{"blood_group": "A+", "quantity": 2})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got domain.BloodRequest
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int32(100), got.ID)
		assert.Equal(t, domain.RequestStatusPending, got.Status)
	})

	t.Run("RecipientCannotFileForOthers", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodPost, "/api/v1/requests", 10, domain.UserRoleRecipient,
			map[string]any{"blood_group": "A+", "quantity": 2, "recipient_user_id": 11})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminFilesOnBehalf", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("CreateRequest", mock.Anything, int32(11), "O-", int32(1)).Return(&domain.BloodRequest{ID: 1}, nil)

		rec := f.call(t, http.MethodPost, "/api/v1/requests", 1, domain.UserRoleAdmin,
			map[string]any{"blood_group": "O-", "quantity": 1, "recipient_user_id": 11})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("ErrorMapping", func(t *testing.T) {
		tests := []struct {
			name    string
			err     error
			status  int
			message string
		}{
			{"missing profile", domain.InvalidOperation("recipient profile not found"), http.StatusConflict, "recipient profile not found"},
			{"bad quantity", domain.Validation("quantity must be between 1 and 10 units"), http.StatusBadRequest, "quantity must be between 1 and 10 units"},
			{"unclassified", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newAPIFixture(nil)
				f.requests.On("CreateRequest", mock.Anything, int32(10), "A+", int32(1)).Return(nil, tt.err)

				rec := f.call(t, http.MethodPost, "/api/v1/requests", 10, domain.UserRoleRecipient, map[string]any{"blood_group": "A+", "quantity": 1})
				assert.Equal(t, tt.status, rec.Code)
				body := decodeError(t, rec)
				assert.Equal(t, tt.message, body.Error)
				assert.NotEmpty(t, body.RequestID)
			})
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodPost, "/api/v1/requests", 10, domain.UserRoleRecipient, `{"blood_group": "A+", "units": 3}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListRequestsHandler(t *testing.T) {
	t.Run("RecipientSeesOwnOnly", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetRecipientProfileByUser", mock.Anything, int32(10)).Return(&domain.RecipientProfile{ID: 3, UserID: 10}, nil)
		f.requests.On("ListRequests", mock.Anything, domain.RequestFilter{RecipientID: 3, Status: domain.RequestStatusPending, Page: 2}).
			Return([]domain.BloodRequest{{ID: 1}}, int32(21), nil)

		rec := f.call(t, http.MethodGet, "/api/v1/requests?status=pending&recipient_id=99&page=2", 10, domain.UserRoleRecipient, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[{"id":1,"recipient_id":0,"blood_group_needed":"","quantity":0,"request_date":"0001-01-01T00:00:00Z","status":""}],"total":21,"page":2}`, rec.Body.String())
	})

	t.Run("BadStatus", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodGet, "/api/v1/requests?status=shipped", 1, domain.UserRoleAdmin, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetRequestHandler(t *testing.T) {
	foreign := &domain.BloodRequest{ID: 100, RecipientUserID: 12, RecipientName: "Rita", RecipientHospital: "General"}

	t.Run("RecipientOwnRequest", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("GetRequest", mock.Anything, int32(100)).Return(&domain.BloodRequest{ID: 100, RecipientUserID: 10}, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/requests/100", 10, domain.UserRoleRecipient, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RecipientForeignRequest", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("GetRequest", mock.Anything, int32(100)).Return(foreign, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/requests/100", 10, domain.UserRoleRecipient, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotContains(t, rec.Body.String(), "General")
		assert.Equal(t, "request belongs to another recipient", decodeError(t, rec).Error)
	})

	t.Run("DonorAndAdminReadAny", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("GetRequest", mock.Anything, int32(100)).Return(foreign, nil)

		assert.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/v1/requests/100", 50, domain.UserRoleDonor, nil).Code)
		assert.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/v1/requests/100", 1, domain.UserRoleAdmin, nil).Code)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("GetRequest", mock.Anything, int32(404)).Return(nil, domain.NotFound("blood request 404 not found"))

		rec := f.call(t, http.MethodGet, "/api/v1/requests/404", 10, domain.UserRoleRecipient, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("OverrideNeedsAdmin", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodPut, "/api/v1/requests/100", 10, domain.UserRoleRecipient, map[string]any{"status": "Pending", "override": true})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		f.requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminOverride", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("UpdateStatus", mock.Anything, int32(100), "Pending", true).
			Return(&domain.BloodRequest{ID: 100, Status: domain.RequestStatusPending}, nil)

		rec := f.call(t, http.MethodPut, "/api/v1/requests/100", 1, domain.UserRoleAdmin, map[string]any{"status": "Pending", "override": true})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RecipientOwnRequest", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("GetRequest", mock.Anything, int32(100)).Return(&domain.BloodRequest{ID: 100, RecipientUserID: 10}, nil)
		f.requests.On("UpdateStatus", mock.Anything, int32(100), "Cancelled", false).
			Return(&domain.BloodRequest{ID: 100, Status: domain.RequestStatusCancelled}, nil)

		rec := f.call(t, http.MethodPut, "/api/v1/requests/100", 10, domain.UserRoleRecipient, map[string]any{"status": "Cancelled"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RecipientForeignRequest", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("GetRequest", mock.Anything, int32(100)).Return(&domain.BloodRequest{ID: 100, RecipientUserID: 12}, nil)

		rec := f.call(t, http.MethodPut, "/api/v1/requests/100", 10, domain.UserRoleRecipient, map[string]any{"status": "Cancelled"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("TerminalConflict", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("UpdateStatus", mock.Anything, int32(100), "Approved", false).
			Return(nil, domain.InvalidOperation("request is already Fulfilled"))

		rec := f.call(t, http.MethodPut, "/api/v1/requests/100", 1, domain.UserRoleAdmin, map[string]any{"status": "Approved"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestDonorActions(t *testing.T) {
	t.Run("DonorFulfillsAsSelf", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfileByUser", mock.Anything, int32(50)).
			Return(&domain.DonorView{DonorProfile: domain.DonorProfile{ID: 5, UserID: 50}}, nil)
		f.requests.On("FulfillByDonor", mock.Anything, int32(100), int32(5), int32(0)).
			Return(&domain.BloodRequest{ID: 100, Status: domain.RequestStatusFulfilled}, nil)

		rec := f.call(t, http.MethodPost, "/api/v1/requests/100/fulfill", 50, domain.UserRoleDonor, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		f.requests.AssertExpectations(t)
	})

	t.Run("DonorCannotActForAnother", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfileByUser", mock.Anything, int32(50)).
			Return(&domain.DonorView{DonorProfile: domain.DonorProfile{ID: 5, UserID: 50}}, nil)

		rec := f.call(t, http.MethodPost, "/api/v1/requests/100/fulfill", 50, domain.UserRoleDonor, map[string]any{"donor_id": 6})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminMustNameDonor", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodPost, "/api/v1/requests/100/fulfill", 1, domain.UserRoleAdmin, map[string]any{"blood_bank_id": 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("AdminExplicitBank", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.requests.On("FulfillByDonor", mock.Anything, int32(100), int32(6), int32(2)).
			Return(nil, domain.NotFound("blood bank 2 not found"))

		rec := f.call(t, http.MethodPost, "/api/v1/requests/100/fulfill", 1, domain.UserRoleAdmin, map[string]any{"donor_id": 6, "blood_bank_id": 2})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Respond", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfileByUser", mock.Anything, int32(50)).
			Return(&domain.DonorView{DonorProfile: domain.DonorProfile{ID: 5, UserID: 50}}, nil)
		f.requests.On("DonorRespond", mock.Anything, int32(100), int32(5), "decline").
			Return(&domain.DonorRequestLink{DonorID: 5, RequestID: 100, ResponseStatus: domain.ResponseStatusDeclined}, nil)

		rec := f.call(t, http.MethodPost, "/api/v1/requests/100/respond", 50, domain.UserRoleDonor, map[string]any{"response": "decline"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"response_status":"Declined"`)
	})

	t.Run("DonorWithoutProfile", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfileByUser", mock.Anything, int32(50)).Return(nil, domain.NotFound("donor profile for user 50 not found"))

		rec := f.call(t, http.MethodPost, "/api/v1/requests/100/respond", 50, domain.UserRoleDonor, map[string]any{"response": "accept"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMatchDonorsHandler(t *testing.T) {
	f := newAPIFixture(nil)
	f.requests.On("FindMatchingDonors", mock.Anything, "A+").
		Return([]domain.DonorView{{DonorProfile: domain.DonorProfile{ID: 1}, EligibilityStatus: true}}, nil)

	rec := f.call(t, http.MethodGet, "/api/v1/donors/match?blood_group=A+", 1, domain.UserRoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"eligibility_status":true`)

	rec = f.call(t, http.MethodGet, "/api/v1/donors/match", 1, domain.UserRoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileHandlers(t *testing.T) {
	donor := &domain.DonorView{DonorProfile: domain.DonorProfile{ID: 5, UserID: 50, BloodGroup: domain.BloodGroupAPos}, EligibilityStatus: true}

	t.Run("UpdateClearsLastDonation", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfile", mock.Anything, int32(5)).Return(donor, nil)
		f.profiles.On("UpdateDonorProfile", mock.Anything, int32(5), mock.MatchedBy(func(u domain.DonorProfileUpdate) bool {
			last, ok := u.LastDonationDate.Get()
			return ok && last == nil && !u.BloodGroup.IsSet()
		})).Return(donor, nil)

		rec := f.call(t, http.MethodPatch, "/api/v1/donors/5", 50, domain.UserRoleDonor, `{"last_donation_date": null}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		f.profiles.AssertExpectations(t)
	})

	t.Run("UpdateBloodGroupOnly", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfile", mock.Anything, int32(5)).Return(donor, nil)
		f.profiles.On("UpdateDonorProfile", mock.Anything, int32(5), mock.MatchedBy(func(u domain.DonorProfileUpdate) bool {
			g, ok := u.BloodGroup.Get()
			return ok && g == domain.BloodGroupBNeg && !u.LastDonationDate.IsSet()
		})).Return(donor, nil)

		rec := f.call(t, http.MethodPatch, "/api/v1/donors/5", 1, domain.UserRoleAdmin, `{"blood_group": "b-"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ForeignDonor", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfile", mock.Anything, int32(5)).Return(donor, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/donors/5", 51, domain.UserRoleDonor, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("CreateDonorForSelf", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("CreateDonorProfile", mock.Anything, int32(50), "A+", (*time.Time)(nil)).Return(donor, nil)

		rec := f.call(t, http.MethodPost, "/api/v1/donors", 50, domain.UserRoleDonor, map[string]any{"blood_group": "A+"})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("DonorRequests", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetDonorProfile", mock.Anything, int32(5)).Return(donor, nil)
		f.requests.On("ListDonorRequests", mock.Anything, int32(5)).Return(nil, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/donors/5/requests", 50, domain.UserRoleDonor, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[],"total":0}`, rec.Body.String())
	})

	t.Run("RecipientMe", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.profiles.On("GetRecipientProfileByUser", mock.Anything, int32(10)).Return(&domain.RecipientProfile{ID: 3, UserID: 10, Name: "Rita"}, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/recipients/me", 10, domain.UserRoleRecipient, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Rita"`)
	})
}

func TestInventoryHandlers(t *testing.T) {
	t.Run("DonorCannotCreateBank", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.call(t, http.MethodPost, "/api/v1/banks", 50, domain.UserRoleDonor, map[string]any{"name": "X"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("RecordDonation", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.inventory.On("RecordDonation", mock.Anything, int32(5), int32(1), int32(1)).
			Return(nil, domain.InvalidOperation("donor 5 is not eligible until 2026-09-01"))

		rec := f.call(t, http.MethodPost, "/api/v1/donations", 1, domain.UserRoleAdmin, map[string]any{"donor_id": 5, "blood_bank_id": 1, "quantity": 1})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Stock", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.inventory.On("GetStock", mock.Anything, int32(1)).
			Return([]domain.BloodStock{{BloodBankID: 1, BloodGroup: domain.BloodGroupAPos, UnitsAvailable: 5}}, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/banks/1/stock", 50, domain.UserRoleDonor, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"units_available":5`)
	})

	t.Run("Report", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.inventory.On("Snapshot", mock.Anything).Return(&service.InventorySnapshot{TakenAt: time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)}, nil)

		rec := f.call(t, http.MethodGet, "/api/v1/reports/inventory.xlsx", 1, domain.UserRoleAdmin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, report.ContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventory-20260615-0930.xlsx")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})
}

func TestNotificationHandlers(t *testing.T) {
	t.Run("ListScopedToCaller", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.notes.On("GetNotifications", mock.Anything, int32(50), int32(2), int32(10)).
			Return([]domain.NotificationLog{{ID: 1, UserID: 50, Message: "hi"}}, int32(11), nil)

		rec := f.call(t, http.MethodGet, "/api/v1/notifications?page=2&page_size=10", 50, domain.UserRoleDonor, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":11`)
	})

	t.Run("MarkReadNotOwned", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.notes.On("MarkAsRead", mock.Anything, int32(50), int32(9)).Return(domain.NotFound("notification 9 not found"))

		rec := f.call(t, http.MethodPut, "/api/v1/notifications/9/read", 50, domain.UserRoleDonor, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("MarkAllAndCount", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.notes.On("MarkAllAsRead", mock.Anything, int32(50)).Return(int64(3), nil)
		f.notes.On("UnreadCount", mock.Anything, int32(50)).Return(int32(0), nil)

		rec := f.call(t, http.MethodPut, "/api/v1/notifications/read-all", 50, domain.UserRoleDonor, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"marked":3}`, rec.Body.String())

		rec = f.call(t, http.MethodGet, "/api/v1/notifications/unread-count", 50, domain.UserRoleDonor, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"unread":0}`, rec.Body.String())
	})
}
