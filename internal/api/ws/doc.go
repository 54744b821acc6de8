// Package ws provides the echo websocket endpoints.
//
// A Handler upgrades the HTTP request, assigns the session a ULID, and feeds
// its events to a Listener:
//
//	OnOpen -> OnMessage* -> [OnError] -> OnClose
//
// Echo is the only Listener. It answers every text frame with a fixed prefix
// followed by the received text. Sending the same frame twice yields two
// replies. Binary frames are ignored.
//
// Endpoints:
//   - /ws      replies "Echo: <text>"
//   - /ws-old  replies "Echo (old): <text>"
//
// Example Usage:
//
//	echo := ws.NewEcho(ws.EchoPrefix, logger.Component("ws"))
//	handler := ws.NewHandler("ws", echo, logger.Component("ws"), ws.WithMetrics(metrics))
//	router.GET("/ws", handler.HandleConnection)
package ws
