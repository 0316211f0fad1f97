package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"stayhost/internal/middleware"
	"stayhost/internal/model"
	"stayhost/internal/repository"
	"stayhost/internal/service"
	"stayhost/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testOrigin = "http://localhost:5173"

func init() {
	gin.SetMode(gin.TestMode)
}

type memUserRepo struct {
	mu        sync.Mutex
	users     map[string]*model.User
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "users_email_key",
				Detail:         "Key (email)=(" + u.Email + ") already exists.",
			}
		}
	}
	u.ID = uuid.NewString()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

type memListingRepo struct {
	mu       sync.Mutex
	listings []model.Listing
	// beforeUpdate runs under the lock, ahead of the owner-guarded write.
	beforeUpdate func(stored []model.Listing)
}

func (r *memListingRepo) Create(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.listings = append(r.listings, *l)
	return nil
}

func (r *memListingRepo) FindByID(_ context.Context, id string) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.listings {
		if l.ID == id {
			copied := l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memListingRepo) FindByOwner(_ context.Context, ownerID string) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Listing{}
	for _, l := range r.listings {
		if l.Owner == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memListingRepo) FindAll(_ context.Context) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Listing{}, r.listings...), nil
}

func (r *memListingRepo) Update(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeUpdate != nil {
		r.beforeUpdate(r.listings)
	}
	for i := range r.listings {
		if r.listings[i].ID == l.ID && r.listings[i].Owner == l.Owner {
			l.UpdatedAt = time.Now()
			r.listings[i] = *l
			return nil
		}
	}
	return repository.ErrListingNotUpdated
}

type memStore struct {
	mu   sync.Mutex
	keys []string
}

func (s *memStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	sort.Strings(s.keys)
	return "https://cdn.example.com/" + key, nil
}

type stubDownloader struct {
	path   string
	err    error
	called bool
}

func (d *stubDownloader) Download(_ context.Context, _ string) (string, error) {
	d.called = true
	return d.path, d.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testApp struct {
	router     *gin.Engine
	jwt        *utils.JWTUtil
	users      *memUserRepo
	listings   *memListingRepo
	store      *memStore
	downloader *stubDownloader
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop()
	app := &testApp{
		jwt:        utils.NewJWTUtil("test-secret", 0),
		users:      newMemUserRepo(),
		listings:   &memListingRepo{},
		store:      &memStore{},
		downloader: &stubDownloader{},
	}
	app.router = NewRouter(RouterConfig{
		AllowedOrigins: []string{testOrigin},
		Cookies:        CookieConfig{SameSite: http.SameSiteLaxMode},
		JWT:            app.jwt,
		Log:            log,
		Metrics:        middleware.NewHTTPMetrics(),
		DB:             fakePinger{},
		Auth:           service.NewAuthService(app.users, app.jwt, log),
		Listings:       service.NewListingService(app.listings),
		Media:          service.NewMediaService(app.store, app.downloader, "uploads", 3, log),
	})
	return app
}

func (a *testApp) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func tokenCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middleware.TokenCookie)
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
