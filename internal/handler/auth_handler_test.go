package handler

import (
	"errors"
	"net/http"
	"testing"

	"stayhost/internal/model"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func fakeCredentials() credentials {
	return credentials{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}
}

func TestRegister(t *testing.T) {
	app := newTestApp(t)
	creds := fakeCredentials()

	w := app.do(t, http.MethodPost, "/register", creds)
	require.Equal(t, http.StatusOK, w.Code)

	user := decode[map[string]any](t, w)
	assert.NotEmpty(t, user["_id"])
	assert.Equal(t, creds.Name, user["name"])
	assert.Equal(t, creds.Email, user["email"])
	assert.NotContains(t, w.Body.String(), creds.Password)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_DefaultName(t *testing.T) {
	app := newTestApp(t)
	creds := fakeCredentials()
	creds.Name = ""

	w := app.do(t, http.MethodPost, "/register", creds)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.DefaultUserName, decode[model.User](t, w).Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	creds := fakeCredentials()

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/register", creds).Code)

	w := app.do(t, http.MethodPost, "/register", creds)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]string](t, w)
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, body["detail"], creds.Email)

	w = app.do(t, http.MethodPost, "/login", credentials{Email: creds.Email, Password: creds.Password})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_StoreErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
	}{
		{
			name:   "constraint with detail",
			err:    &pgconn.PgError{Code: "23514", Message: "new row violates check constraint", Detail: "Failing row contains (...)."},
			detail: "Failing row contains (...).",
		},
		{
			name:   "constraint without detail",
			err:    &pgconn.PgError{Code: "23502", Message: `null value in column "name" violates not-null constraint`},
			detail: `null value in column "name" violates not-null constraint`,
		},
		{
			name:   "connection failure",
			err:    errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			detail: registerFailedDetail,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			app.users.createErr = tc.err

			w := app.do(t, http.MethodPost, "/register", fakeCredentials())
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			body := decode[map[string]string](t, w)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tc.detail, body["detail"])
			assert.NotContains(t, w.Body.String(), "10.0.0.5")
		})
	}
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/register", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	creds := fakeCredentials()
	app.do(t, http.MethodPost, "/register", creds)

	w := app.do(t, http.MethodPost, "/login", credentials{Email: creds.Email, Password: creds.Password})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, creds.Email, decode[model.User](t, w).Email)

	cookie := tokenCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	claims, err := app.jwt.ValidateToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, creds.Email, claims.Email)
}

func TestLogin_Failures(t *testing.T) {
	app := newTestApp(t)
	creds := fakeCredentials()
	app.do(t, http.MethodPost, "/register", creds)

	w := app.do(t, http.MethodPost, "/login", credentials{Email: creds.Email, Password: "not-" + creds.Password})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `"wrong password"`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	w = app.do(t, http.MethodPost, "/login", credentials{Email: "nobody@example.com", Password: creds.Password})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `"email not found"`, w.Body.String())
}

func TestProfile(t *testing.T) {
	app := newTestApp(t)
	creds := fakeCredentials()
	app.do(t, http.MethodPost, "/register", creds)
	cookie := tokenCookie(t, app.do(t, http.MethodPost, "/login", creds))

	t.Run("anonymous", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/profile", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})

	t.Run("authenticated", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/profile", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		profile := decode[model.Profile](t, w)
		assert.Equal(t, creds.Name, profile.Name)
		assert.Equal(t, creds.Email, profile.Email)
		assert.NotEmpty(t, profile.ID)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/profile", nil, &http.Cookie{Name: cookie.Name, Value: "garbage"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := app.jwt.GenerateToken("00000000-0000-0000-0000-000000000000", "gone@example.com")
		require.NoError(t, err)
		w := app.do(t, http.MethodGet, "/profile", nil, &http.Cookie{Name: cookie.Name, Value: token})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/Logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	cookie := tokenCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
