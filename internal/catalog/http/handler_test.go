package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/repository"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/service"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// switchSlot lets a test make every write fail.
type switchSlot struct {
	*memory.Slot
	mu   sync.Mutex
	fail bool
}

func (s *switchSlot) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("slot unavailable")
	}
	return s.Slot.Write(ctx, data)
}

func (s *switchSlot) breakWrites() {
	s.mu.Lock()
	s.fail = true
	s.mu.Unlock()
}

type testEnv struct {
	store  *service.CatalogService
	slot   *switchSlot
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	slot := &switchSlot{Slot: memory.New()}
	store := service.NewCatalogService(repository.NewSnapshotRepository(slot), nil)
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	h := New(store)
	r := gin.New()
	tmpl, err := Templates()
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)
	h.RegisterPages(r)
	h.RegisterAPI(r.Group("/api/v1/products"))

	return &testEnv{store: store, slot: slot, router: r}
}

func (e *testEnv) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seed(i int) domain.Product {
	p, err := e.store.At(i)
	if err != nil {
		panic(err)
	}
	return p
}
