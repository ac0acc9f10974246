// Package ws serves interactive shell sessions over WebSocket.
//
// Each connection owns one session on the shared tree. Clients send
// {"type":"exec","line":"ls -l"} or {"type":"ping"}; the server answers with
// "result", "pong" or "error" messages. Running exit closes the connection.
package ws
