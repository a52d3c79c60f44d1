package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lockerhq/locker/pkg/types"
)

// Response messages. These strings are part of the wire contract.
const (
	msgUserRegistered    = "User has been registered"
	msgUserExists        = "User already exists"
	msgUserNotFound      = "User has not been found"
	msgItemCreated       = "Item has been created"
	msgItemRemoved       = "Item has been removed"
	msgItemNotFound      = "Item has not been found"
	msgItemReceived      = "Item has been received"
	msgRecipientNotFound = "Recipient has not been found"
	msgSendingNotFound   = "Sending has not been found"
	msgSendToSelf        = "Cannot send an item to yourself"
	msgTokenInvalid      = "Token has not been authorized"
	msgQueryTokenInvalid = "Provided token has not been authorized"
	msgTooManyRequests   = "Too many requests"
	msgInternalError     = "Internal server error"
)

// authenticate resolves an auth token to its user. Unknown and expired
// tokens both come back as the 401 used across the item endpoints.
func (s *Server) authenticate(c echo.Context, token string) (*types.User, error) {
	users, err := s.store.Users()
	if err != nil {
		return nil, err
	}
	user, err := users.GetByToken(c.Request().Context(), token, s.now())
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
		}
		return nil, err
	}
	return user, nil
}

// handleRegistration creates an account. POST /registration.
func (s *Server) handleRegistration(c echo.Context) error {
	var req types.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user := &types.User{Login: req.Login}
	if err := user.SetPassword(req.Password); err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	users, err := s.store.Users()
	if err != nil {
		return err
	}
	if err := users.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, types.ErrLoginTaken) {
			return echo.NewHTTPError(http.StatusConflict, msgUserExists)
		}
		return fmt.Errorf("creating user: %w", err)
	}

	return c.JSON(http.StatusCreated, types.MessageResponse{Message: msgUserRegistered})
}

// handleLogin checks credentials and issues a fresh token. POST /login.
// Every successful login rotates the token; the previous one stops working
// immediately. Unknown logins and wrong passwords answer identically.
func (s *Server) handleLogin(c echo.Context) error {
	var req types.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	users, err := s.store.Users()
	if err != nil {
		return err
	}
	user, err := users.GetByLogin(c.Request().Context(), req.Login)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, msgUserNotFound)
		}
		return err
	}
	if !user.CheckPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, msgUserNotFound)
	}

	token := types.NewToken()
	expiresAt := s.now().Add(time.Duration(s.config.TokenTTL) * time.Second)
	if err := users.SetToken(c.Request().Context(), user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return c.JSON(http.StatusCreated, types.TokenResponse{Token: token})
}

// handleCreateItem records a new item for the token's holder. POST /items/new.
func (s *Server) handleCreateItem(c echo.Context) error {
	var req types.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := s.authenticate(c, req.Token)
	if err != nil {
		return err
	}

	items, err := s.store.Items()
	if err != nil {
		return err
	}
	item := &types.Item{UserID: user.ID, Name: req.Name}
	if err := items.Create(c.Request().Context(), item); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return c.JSON(http.StatusCreated, types.CreateItemResponse{
		ID:      item.ID,
		Name:    item.Name,
		Message: msgItemCreated,
	})
}

// handleDeleteItem removes an item and its pending sendings.
// DELETE /items/:id, token in the body. The path id is authoritative.
// Removing an item that does not exist answers 204 with no body.
func (s *Server) handleDeleteItem(c echo.Context) error {
	var req types.DeleteItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if _, err := s.authenticate(c, req.Token); err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}

	items, err := s.store.Items()
	if err != nil {
		return err
	}
	if err := items.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		return fmt.Errorf("deleting item: %w", err)
	}

	return c.JSON(http.StatusOK, types.MessageResponse{Message: msgItemRemoved})
}

// handleListItems lists the caller's items ordered by id. GET /items?token=
func (s *Server) handleListItems(c echo.Context) error {
	users, err := s.store.Users()
	if err != nil {
		return err
	}
	user, err := users.GetByToken(c.Request().Context(), c.QueryParam("token"), s.now())
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, msgQueryTokenInvalid)
		}
		return err
	}

	items, err := s.store.Items()
	if err != nil {
		return err
	}
	owned, err := items.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	entries := make([]types.ItemEntry, 0, len(owned))
	for _, item := range owned {
		entries = append(entries, types.ItemEntry{ID: item.ID, Name: item.Name})
	}
	return c.JSON(http.StatusOK, entries)
}

// handleSend records a pending transfer and returns its confirmation URL.
// POST /send. Repeating an identical send returns the URL minted the first
// time. Ownership is not checked here: a sending whose sender does not own
// the item fails at confirmation time instead.
func (s *Server) handleSend(c echo.Context) error {
	var req types.SendRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	sender, err := s.authenticate(c, req.Token)
	if err != nil {
		return err
	}
	if sender.Login == req.Recipient {
		return echo.NewHTTPError(http.StatusBadRequest, msgSendToSelf)
	}

	items, err := s.store.Items()
	if err != nil {
		return err
	}
	item, err := items.Get(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgItemNotFound)
		}
		return fmt.Errorf("loading item: %w", err)
	}

	users, err := s.store.Users()
	if err != nil {
		return err
	}
	recipient, err := users.GetByLogin(c.Request().Context(), req.Recipient)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgRecipientNotFound)
		}
		return fmt.Errorf("loading recipient: %w", err)
	}

	sendings, err := s.store.Sendings()
	if err != nil {
		return err
	}
	sending, err := sendings.Initiate(c.Request().Context(), item.ID, sender.ID, recipient.ID)
	if err != nil {
		return fmt.Errorf("initiating sending: %w", err)
	}

	url := fmt.Sprintf("%s/get/%s/%s", s.baseURL(), sending.Token, recipient.Token)
	return c.JSON(http.StatusCreated, types.SendResponse{ConfirmationURL: url})
}

// handleReceive completes a pending transfer.
// GET /get/:item_token/:recipient_token. The presented token must belong to
// some logged-in user; the item moves to the sending's designated recipient
// either way.
func (s *Server) handleReceive(c echo.Context) error {
	if _, err := s.authenticate(c, c.Param("recipient_token")); err != nil {
		return err
	}

	sendings, err := s.store.Sendings()
	if err != nil {
		return err
	}
	if err := sendings.Complete(c.Request().Context(), c.Param("item_token")); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, msgSendingNotFound)
		case errors.Is(err, types.ErrSendingStale):
			return echo.NewHTTPError(http.StatusInternalServerError, msgInternalError)
		}
		return fmt.Errorf("completing sending: %w", err)
	}

	return c.JSON(http.StatusOK, types.MessageResponse{Message: msgItemReceived})
}

// handleHealth reports liveness. GET /healthz.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, types.HealthResponse{Status: "ok"})
}
