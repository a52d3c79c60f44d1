package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockerhq/locker/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL)
}

func decodeBody(t *testing.T, r *http.Request, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(out))
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestRegister(t *testing.T) {
	t.Run("sends credentials", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/registration", r.URL.Path)

			var req types.RegisterRequest
			decodeBody(t, r, &req)
			assert.Equal(t, "alice", req.Login)
			assert.Equal(t, "secret", req.Password)

			writeJSON(t, w, http.StatusCreated, types.MessageResponse{Message: "User has been registered"})
		})

		require.NoError(t, c.Register(context.Background(), "alice", "secret"))
	})

	t.Run("conflict surfaces as APIError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusConflict, types.ErrorResponse{Detail: "User already exists"})
		})

		err := c.Register(context.Background(), "alice", "secret")
		require.Error(t, err)

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
		assert.Equal(t, "User already exists", apiErr.Detail)
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns the token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/login", r.URL.Path)
			writeJSON(t, w, http.StatusCreated, types.TokenResponse{Token: "aaaabbbbccccddddeeeeffff00001111"})
		})

		token, err := c.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "aaaabbbbccccddddeeeeffff00001111", token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, types.ErrorResponse{Detail: "User has not been found"})
		})

		_, err := c.Login(context.Background(), "alice", "wrong")
		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})
}

func TestCreateItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/new", r.URL.Path)

		var req types.CreateItemRequest
		decodeBody(t, r, &req)
		assert.Equal(t, "spoon", req.Name)
		assert.Equal(t, "tok", req.Token)

		writeJSON(t, w, http.StatusCreated, types.CreateItemResponse{ID: 7, Name: req.Name, Message: "Item has been created"})
	})

	item, err := c.CreateItem(context.Background(), "tok", "spoon")
	require.NoError(t, err)
	assert.Equal(t, types.ItemEntry{ID: 7, Name: "spoon"}, item)
}

func TestDeleteItem(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/items/7", r.URL.Path)

			var req types.DeleteItemRequest
			decodeBody(t, r, &req)
			assert.Equal(t, int64(7), req.ID)
			assert.Equal(t, "tok", req.Token)

			writeJSON(t, w, http.StatusOK, types.MessageResponse{Message: "Item has been removed"})
		})

		removed, err := c.DeleteItem(context.Background(), "tok", 7)
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("absent item reports false", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		removed, err := c.DeleteItem(context.Background(), "tok", 99)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestItems(t *testing.T) {
	t.Run("lists entries", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/items", r.URL.Path)
			assert.Equal(t, "tok en", r.URL.Query().Get("token"))

			writeJSON(t, w, http.StatusOK, []types.ItemEntry{{ID: 1, Name: "spoon"}, {ID: 2, Name: "fork"}})
		})

		// The token lands in a query parameter, so it is escaped.
		items, err := c.Items(context.Background(), "tok en")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, types.ItemEntry{ID: 1, Name: "spoon"}, items[0])
	})

	t.Run("empty list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, []types.ItemEntry{})
		})

		items, err := c.Items(context.Background(), "tok")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestSend(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)

		var req types.SendRequest
		decodeBody(t, r, &req)
		assert.Equal(t, int64(7), req.ID)
		assert.Equal(t, "bob", req.Recipient)

		writeJSON(t, w, http.StatusCreated, types.SendResponse{ConfirmationURL: "http://0.0.0.0:8000/get/a/b"})
	})

	confirmation, err := c.Send(context.Background(), "tok", 7, "bob")
	require.NoError(t, err)
	assert.Equal(t, "http://0.0.0.0:8000/get/a/b", confirmation)
}

func TestReceive(t *testing.T) {
	t.Run("resolves the path against the client base URL", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/get/sendtok/authtok", r.URL.Path)
			writeJSON(t, w, http.StatusOK, types.MessageResponse{Message: "Item has been received"})
		})

		// The confirmation URL names the server's public address; only its
		// path matters here.
		err := c.Receive(context.Background(), "http://0.0.0.0:8000/get/sendtok/authtok")
		require.NoError(t, err)
	})

	t.Run("rejects a URL without a confirmation path", func(t *testing.T) {
		c := New("http://127.0.0.1:1")
		err := c.Receive(context.Background(), "http://0.0.0.0:8000/items")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a confirmation URL")
	})
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		writeJSON(t, w, http.StatusOK, types.HealthResponse{Status: "ok"})
	})

	require.NoError(t, c.Health(context.Background()))
}

func TestErrorWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	err := c.Health(context.Background())
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "Service Unavailable", apiErr.Detail)
}
