package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleRoot redirects to the endpoint reference. GET /.
func (s *Server) handleRoot(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, "/docs")
}

// handleDocs serves the endpoint reference. GET /docs.
func (s *Server) handleDocs(c echo.Context) error {
	return c.HTML(http.StatusOK, docsHTML)
}

const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Locker API</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
code { background: #f2f2f2; padding: 0.1rem 0.3rem; }
td, th { text-align: left; padding: 0.3rem 0.8rem 0.3rem 0; vertical-align: top; }
</style>
</head>
<body>
<h1>Locker API</h1>
<p>Users keep named items; an item moves to another user through a one-time
confirmation URL. Errors come back as <code>{"detail": "..."}</code>.</p>
<table>
<tr><th>Route</th><th>Body</th><th>Description</th></tr>
<tr><td><code>POST /registration</code></td><td><code>{login, password}</code></td>
<td>Create a user. 201, or 409 when the login is taken.</td></tr>
<tr><td><code>POST /login</code></td><td><code>{login, password}</code></td>
<td>Issue a fresh auth token (24h). 201 <code>{token}</code>, or 401.</td></tr>
<tr><td><code>POST /items/new</code></td><td><code>{name, token}</code></td>
<td>Create an item. 201 <code>{id, name, message}</code>, or 401.</td></tr>
<tr><td><code>DELETE /items/:id</code></td><td><code>{id, token}</code></td>
<td>Remove an item. 200, 204 when absent, or 401.</td></tr>
<tr><td><code>GET /items?token=</code></td><td>&mdash;</td>
<td>List your items. 200 <code>[{id, name}]</code>, or 401.</td></tr>
<tr><td><code>POST /send</code></td><td><code>{id, token, recipient}</code></td>
<td>Offer an item to another user. 201 <code>{confirmation_url}</code>,
or 400/401/404.</td></tr>
<tr><td><code>GET /get/:item_token/:recipient_token</code></td><td>&mdash;</td>
<td>Follow a confirmation URL to accept the item. 200, 401, or 404.</td></tr>
<tr><td><code>GET /healthz</code></td><td>&mdash;</td>
<td>Liveness probe.</td></tr>
<tr><td><code>GET /metrics</code></td><td>&mdash;</td>
<td>Prometheus exposition.</td></tr>
</table>
</body>
</html>
`
