package types

// Wire types shared by the HTTP handlers and the client SDK. Field names and
// shapes are part of the public API contract.

// RegisterRequest is the body of POST /registration.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued auth token.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateItemRequest is the body of POST /items/new.
type CreateItemRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

// CreateItemResponse confirms item creation.
type CreateItemResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// DeleteItemRequest is the body of DELETE /items/:id. The path id is
// authoritative; the body repeats it for symmetry with the other item calls.
type DeleteItemRequest struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}

// ItemEntry is one element of the GET /items listing.
type ItemEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SendRequest is the body of POST /send.
type SendRequest struct {
	ID        int64  `json:"id"`
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
}

// SendResponse carries the confirmation URL for a pending transfer.
type SendResponse struct {
	ConfirmationURL string `json:"confirmation_url"`
}

// MessageResponse is the generic success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every error status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
