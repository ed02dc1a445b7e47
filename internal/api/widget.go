package api

import (
	_ "embed"
	"net/http"
	"strings"
)

var (
	//go:embed assets/widget.html
	widgetPage []byte
	//go:embed assets/embed.js
	embedScript string
)

func handleWidget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(widgetPage)
}

// handleEmbedScript serves a script that injects the widget iframe into the
// host page. The widget URL is derived from the request.
func handleEmbedScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Write([]byte(strings.ReplaceAll(embedScript, "{{WIDGET_URL}}", baseURL(r)+"widget")))
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); validHost(fwd) {
		host = fwd
	}
	return scheme + "://" + host + "/"
}

// validHost accepts host[:port] values that are safe to embed in a script literal.
func validHost(host string) bool {
	if host == "" {
		return false
	}
	for _, c := range host {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune(".-:[]", c):
		default:
			return false
		}
	}
	return true
}
