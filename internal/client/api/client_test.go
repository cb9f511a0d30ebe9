package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "header.payload.signature"

// fakeAPI is a tiny stand-in for the inventory server.
type fakeAPI struct {
	mu       sync.Mutex
	lastAuth string
	lastBody map[string]any
	lastURL  string
}

type seenRequest struct {
	auth string
	body map[string]any
	url  string
}

func (f *fakeAPI) last() seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seenRequest{auth: f.lastAuth, body: f.lastBody, url: f.lastURL}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	record := func(r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastAuth = r.Header.Get("Authorization")
		f.lastURL = r.URL.String()
		f.lastBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		}
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return false
		}
		return true
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if f.lastBody["password"] != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": testToken, "message": "Login successful"})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if f.lastBody["username"] == "taken" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username already exists"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, map[string]string{"username": "alice"})
		}
	})
	mux.HandleFunc("GET /items", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "name": "Pen", "quantity": 10, "minQuantity": 5, "price": 1.5, "tags": []string{"office"}},
			})
		}
	})
	mux.HandleFunc("GET /items/low-stock", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []any{})
		}
	})
	mux.HandleFunc("POST /items", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if !authorized(w, r) {
			return
		}
		if f.lastBody["name"] == "Pen" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Item already exists"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 2, "name": f.lastBody["name"], "minQuantity": 5})
	})
	mux.HandleFunc("GET /items/stats", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, map[string]any{"totalItems": 10, "totalValue": 15, "lowStockCount": 0, "uniqueProducts": 1})
		}
	})
	mux.HandleFunc("GET /items/export", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			_, _ = w.Write([]byte("ID,Name\n1,Pen\n"))
		}
	})
	mux.HandleFunc("POST /items/export", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "Archive storage is not configured"})
		}
	})
	mux.HandleFunc("POST /transactions", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusCreated, map[string]any{"id": 7, "itemName": f.lastBody["itemName"], "type": f.lastBody["type"], "quantity": f.lastBody["quantity"], "username": "alice"})
		}
	})
	mux.HandleFunc("GET /transactions", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 7, "itemName": "Pen", "type": "IN", "quantity": 3}})
		}
	})
	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{}
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL+"/", time.Second)
	require.NoError(t, err)
	return c, f
}

func TestNew_ValidatesURL(t *testing.T) {
	for _, u := range []string{"127.0.0.1:8084", "ftp://host", "http://", "::bad"} {
		_, err := New(u, time.Second)
		assert.Error(t, err, u)
	}
}

func TestLoginThenProtectedCalls(t *testing.T) {
	c, f := newTestClient(t)
	ctx := context.Background()

	_, err := c.Me(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, f.last().auth, "no token is sent before login")

	require.NoError(t, c.Login(ctx, "alice", "secret123"))
	assert.True(t, c.LoggedIn())

	name, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, "Bearer "+testToken, f.last().auth)

	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pen", items[0].Name)
	assert.Equal(t, []string{"office"}, items[0].Tags)

	low, err := c.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	c.Logout()
	assert.False(t, c.LoggedIn())
	_, err = c.ListItems(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.False(t, c.LoggedIn())
}

func TestRegister(t *testing.T) {
	c, f := newTestClient(t)

	require.NoError(t, c.Register(context.Background(), "bob", "pw"))
	assert.Equal(t, "bob", f.last().body["username"])
	assert.Equal(t, "pw", f.last().body["password"])

	err := c.Register(context.Background(), "taken", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Username already exists", apiErr.Message)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestUnauthorizedDropsToken(t *testing.T) {
	c, _ := newTestClient(t)
	c.setToken("stale")

	_, err := c.Stats(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.LoggedIn())
}

func TestItemsAndTransactions(t *testing.T) {
	c, f := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "alice", "secret123"))

	minQty := 2
	created, err := c.CreateItem(ctx, models.NewItem{Name: "Desk", Quantity: 1, MinQuantity: &minQty, Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, float64(2), f.last().body["minQuantity"])

	_, err = c.CreateItem(ctx, models.NewItem{Name: "Pen"})
	assert.True(t, IsStatus(err, http.StatusConflict))

	tr, err := c.Record(ctx, "Pen", "OUT", 3)
	require.NoError(t, err)
	assert.Equal(t, "OUT 3 x Pen", tr.String())

	list, err := c.Transactions(ctx, "Pen & Co")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/transactions?item=Pen+%26+Co", f.last().url)

	_, err = c.Transactions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "/transactions", f.last().url)

	s, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalItems: 10, TotalValue: 15, UniqueProducts: 1}, *s)
}

func TestExportAndArchive(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "alice", "secret123"))

	data, err := c.ExportCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ID,Name\n1,Pen\n", string(data))

	_, err = c.Archive(ctx)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.Contains(t, err.Error(), "Archive storage is not configured")
}

func TestUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c, err := New(ts.URL, time.Second)
	require.NoError(t, err)

	err = c.Login(context.Background(), "alice", "secret123")
	require.ErrorIs(t, err, ErrUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Me(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestGatewayErrorsAreUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := New(ts.URL, time.Second)
	require.NoError(t, err)
	_, err = c.Me(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
