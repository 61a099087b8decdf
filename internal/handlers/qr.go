package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// joinURL is the link players open to join roomCode
func (ctx *Context) joinURL(roomCode string) string {
	return strings.TrimRight(ctx.PublicURL, "/") + "/?code=" + url.QueryEscape(roomCode)
}

// HandleQR serves the join link of a lobby as a PNG QR code
func (ctx *Context) HandleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	roomCode := roomCodeFrom(r, "/qr/")
	if !ctx.LobbyStore.Exists(roomCode) {
		http.Error(w, "Lobby not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(ctx.joinURL(roomCode), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("WARN: qr code for %s: %v", roomCode, err)
		http.Error(w, "Could not render QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
