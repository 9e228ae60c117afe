// Package web holds the control page served at "/".
package web

import _ "embed"

var (
	//go:embed index.html
	IndexHTML []byte

	//go:embed websocket.js
	WebsocketJS []byte
)
