package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// AllowedPaths are the upstream path prefixes the relay forwards.
var AllowedPaths = []string{
	"/api/v9/me",
	"/api/v9/workspaces",
	"/reports/api/v3/shared/",
}

const (
	relayUserAgent = "togglreport-relay/0.1"
	maxBodyBytes   = 1 << 20
)

type errorBody struct {
	Error     string `json:"error"`
	ProxyInfo string `json:"proxy_info,omitempty"`
}

// ResolveEndpoint validates the endpoint query value and returns the cleaned
// upstream-relative URL. ok is false for anything outside AllowedPaths.
func ResolveEndpoint(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil || !strings.HasPrefix(u.Path, "/") {
		return nil, false
	}
	cleaned := path.Clean(u.Path)
	for _, allowed := range AllowedPaths {
		prefix := strings.TrimSuffix(allowed, "/")
		if (cleaned == prefix && !strings.HasSuffix(allowed, "/")) || strings.HasPrefix(cleaned, prefix+"/") {
			return &url.URL{Path: cleaned, RawQuery: u.RawQuery}, true
		}
	}
	return nil, false
}

func (s *Server) handleProxy(w http.ResponseWriter, req *http.Request) {
	log := zerolog.Ctx(req.Context())

	raw, present := req.URL.Query()["endpoint"]
	if !present || strings.TrimSpace(raw[0]) == "" {
		writeError(w, http.StatusBadRequest, errorBody{Error: "Endpoint-Parameter fehlt"})
		return
	}
	rel, ok := ResolveEndpoint(raw[0])
	if !ok {
		log.Warn().Msg("endpoint rejected")
		writeError(w, http.StatusForbidden, errorBody{Error: "Endpoint nicht erlaubt"})
		return
	}

	target := s.upstream.ResolveReference(rel)
	var body io.Reader
	if hasBody(req.Method) {
		body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	}
	out, err := http.NewRequestWithContext(req.Context(), req.Method, target.String(), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Error: "Ungültiger Endpoint"})
		return
	}
	if auth := req.Header.Get("Authorization"); auth != "" {
		out.Header.Set("Authorization", auth)
	}
	if hasBody(req.Method) {
		out.Header.Set("Content-Type", "application/json")
	}
	out.Header.Set("User-Agent", relayUserAgent)

	resp, err := s.client.Do(out)
	if err != nil {
		log.Error().Err(err).Str("upstream", target.String()).Msg("upstream request failed")
		writeError(w, http.StatusInternalServerError, errorBody{
			Error:     fmt.Sprintf("Upstream-Fehler: %v", err),
			ProxyInfo: "Toggl-API nicht erreichbar",
		})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.StatusCode)
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("copy upstream body")
		return
	}
	log.Info().Int("status", resp.StatusCode).Int64("bytes", n).Msg("relayed")
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
