// Package server hosts selection groups over HTTP and WebSocket.
//
// Each configured group lives in a Room. A room owns the group, the host
// owners of its items and the connected WebSocket clients, and applies every
// operation on its own event loop goroutine:
//
//	hub, _ := server.NewHub(cfg.Groups)
//	room, _ := hub.Room("tabs")
//	res, _ := room.Toggle(ctx, id)
//
// Routes:
//
//	GET    /healthz
//	GET    /metrics
//	GET    /groups
//	GET    /groups/{name}
//	POST   /groups/{name}/items
//	DELETE /groups/{name}/items/{id}
//	POST   /groups/{name}/items/{id}/toggle
//	POST   /groups/{name}/next
//	POST   /groups/{name}/prev
//	POST   /groups/{name}/step?n=
//	PUT    /groups/{name}/selection
//	PATCH  /groups/{name}/config
//	GET    /groups/{name}/ws
//
// WebSocket clients receive a "state" message on connect and a "selection"
// message after every change. They may send the same operations as JSON:
//
//	{"op": "toggle", "id": 3}
//	{"op": "step", "n": -1}
//	{"op": "set", "values": ["home"]}
package server
