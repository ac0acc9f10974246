// Package http exposes shell sessions over a JSON API.
//
// Routes:
//   - GET    /                  status and metric snapshot
//   - GET    /health            session and node counts
//   - POST   /sessions          open a session
//   - GET    /sessions          list sessions
//   - GET    /sessions/:id      describe a session
//   - DELETE /sessions/:id      close a session
//   - POST   /sessions/:id/exec run {"line": "..."} in a session
//
// Every session shares the server's single tree.
package http
