package api

import (
	"net/http"
	"testing"

	db "github.com/katatrina/cmis-BE/internal/db/sqlc"
	"github.com/katatrina/cmis-BE/internal/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndLogin(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]interface{}{
		"full_name":    "Jane Driver",
		"email":        "jane@example.com",
		"password":     "Secret#123",
		"phone_number": "+254712345678",
	}
	recorder := ts.do(t, http.MethodPost, "/v1/users", "", body)
	require.Equal(t, http.StatusOK, recorder.Code)

	var created createUserResponse
	decodeBody(t, recorder, &created)
	assert.Equal(t, "jane@example.com", created.User.Email)
	assert.Equal(t, "+254712345678", created.User.PhoneNumber.String)
	assert.Equal(t, db.UserRoleMember, created.User.Role)
	assert.NotContains(t, recorder.Body.String(), "hashed_password")

	recorder = ts.do(t, http.MethodPost, "/v1/users", "", body)
	require.Equal(t, http.StatusConflict, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "Secret#123",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var login loginUserResponse
	decodeBody(t, recorder, &login)
	require.NotEmpty(t, login.AccessToken)

	recorder = ts.do(t, http.MethodGet, "/v1/users/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestCreateUserValidation(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.do(t, http.MethodPost, "/v1/users", "", map[string]interface{}{
		"full_name":    "J",
		"email":        "not-an-email",
		"password":     "short",
		"phone_number": "0712345678",
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var resp FailedValidationResponse
	decodeBody(t, recorder, &resp)
	fields := make([]string, 0, len(resp.FieldViolations))
	for _, v := range resp.FieldViolations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"full_name", "email", "password", "phone_number"}, fields)
}

func TestUpdateUserContact(t *testing.T) {
	ts := newTestServer(t)
	user, accessToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	ts.addUser(t, "taken@example.com", db.UserRoleMember)

	recorder := ts.do(t, http.MethodPatch, "/v1/users/me/contact", accessToken, map[string]string{})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = ts.do(t, http.MethodPatch, "/v1/users/me/contact", accessToken, map[string]string{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = ts.do(t, http.MethodPatch, "/v1/users/me/contact", accessToken, map[string]string{
		"email": "taken@example.com",
	})
	require.Equal(t, http.StatusConflict, recorder.Code)

	recorder = ts.do(t, http.MethodPatch, "/v1/users/me/contact", accessToken, map[string]string{
		"email": "jane.driver@example.com",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	stored, err := ts.store.GetUserByID(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane.driver@example.com", stored.Email)
}

func TestVerifyPhoneNumber(t *testing.T) {
	ts := newTestServer(t)
	user, accessToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)

	recorder := ts.do(t, http.MethodPost, "/v1/users/me/phone-number/otp", accessToken, map[string]string{
		"phone_number": "12",
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/v1/users/me/phone-number/otp", accessToken, map[string]string{
		"phone_number": "+84901234567",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	code := ts.verifier.codes["+84901234567"]
	require.Len(t, code, 6)

	recorder = ts.do(t, http.MethodPost, "/v1/users/me/phone-number/verify", accessToken, map[string]string{
		"phone_number": "+84901234567",
		"otp_code":     "000000",
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/v1/users/me/phone-number/verify", accessToken, map[string]string{
		"phone_number": "+84909999999",
		"otp_code":     code,
	})
	require.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/v1/users/me/phone-number/verify", accessToken, map[string]string{
		"phone_number": "+84901234567",
		"otp_code":     code,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	stored, err := ts.store.GetUserByID(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+84901234567", stored.PhoneNumber.String)
	assert.Equal(t, "jane@example.com", stored.Email)
}

func TestSendPhoneNumberOTPGatewayNotConfigured(t *testing.T) {
	ts := newTestServer(t)
	_, accessToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)
	ts.verifier.sendErr = sms.ErrNotConfigured

	recorder := ts.do(t, http.MethodPost, "/v1/users/me/phone-number/otp", accessToken, map[string]string{
		"phone_number": "+84901234567",
	})
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)
	_, accessToken := ts.addUser(t, "jane@example.com", db.UserRoleMember)

	recorder := ts.do(t, http.MethodGet, "/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/notifications", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = ts.do(t, http.MethodGet, "/v1/admin/notifications/retry-eligible", accessToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
