package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/FocuswithJustin/ChordShift/core/cas"
	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/core/musicxml"
	"github.com/FocuswithJustin/ChordShift/core/pitch"
	"github.com/FocuswithJustin/ChordShift/core/transpose"
	"github.com/FocuswithJustin/ChordShift/internal/history"
	"github.com/FocuswithJustin/ChordShift/internal/logging"
)

// defaultKey is used when a request leaves from or to empty.
const defaultKey = "C"

// MusicXMLContentType is the media type of transposed scores.
const MusicXMLContentType = "application/vnd.recordare.musicxml+xml"

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// TransposeRequest is the body of POST /transpose and of WebSocket frames.
type TransposeRequest struct {
	Text string `json:"text"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Mode string `json:"mode,omitempty"` // "general" or "plain"
}

// TransposeResult is a transposed sheet.
type TransposeResult struct {
	Text      string `json:"text"`
	From      string `json:"from"`
	To        string `json:"to"`
	Mode      string `json:"mode"`
	Steps     int    `json:"steps"`
	Lines     int    `json:"lines"`
	Chords    int    `json:"chords"`
	Cached    bool   `json:"cached,omitempty"`
	HistoryID string `json:"history_id,omitempty"`
}

// KeyInfo describes one accepted key name.
type KeyInfo struct {
	Name       string `json:"name"`
	Index      int    `json:"index"`
	Accidental string `json:"accidental"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Mode    string `json:"mode"`
	History bool   `json:"history"`
	Cached  int    `json:"cached"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "ChordShift API",
		"version": Version,
		"endpoints": []string{
			"GET /health",
			"GET /keys",
			"POST /transpose",
			"POST /transpose/musicxml?from=&to=",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	info := HealthInfo{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Mode:    s.cfg.Mode.String(),
		History: s.store != nil,
	}
	if s.cache != nil {
		info.Cached = s.cache.Len()
	}
	respond(w, http.StatusOK, info)
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	names := pitch.Keys()
	keys := make([]KeyInfo, 0, len(names))
	for _, name := range names {
		idx, _ := pitch.IndexOf(name)
		acc, _ := pitch.Preference(name)
		keys = append(keys, KeyInfo{Name: name, Index: idx, Accidental: accidentalName(acc)})
	}
	respondList(w, keys, len(keys))
}

func (s *Server) handleTranspose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req TransposeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondErr(w, bodyError(err))
		return
	}

	res, err := s.transpose(r.Context(), "api", req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (s *Server) handleMusicXML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	from := keyOrDefault(r.URL.Query().Get("from"))
	to := keyOrDefault(r.URL.Query().Get("to"))

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		respondErr(w, bodyError(err))
		return
	}

	out, stats, err := musicxml.TransposeKeys(data, from, to)
	if err != nil {
		respondErr(w, err)
		return
	}

	ctx := r.Context()
	steps, _ := pitch.Steps(from, to)
	logging.Transposition(ctx, "api", from, to, "musicxml", stats.Harmonies, stats.Pitches)
	id := s.record(ctx, history.Entry{
		Source:       "api:musicxml",
		InputDigest:  cas.Blake3Hash(data),
		OutputDigest: cas.Blake3Hash(out),
		FromKey:      from,
		ToKey:        to,
		Mode:         "musicxml",
		Steps:        steps,
		Lines:        stats.Harmonies,
		Chords:       stats.Pitches,
	})

	w.Header().Set("Content-Type", MusicXMLContentType)
	w.Header().Set("X-Harmonies", strconv.Itoa(stats.Harmonies))
	w.Header().Set("X-Pitches", strconv.Itoa(stats.Pitches))
	if id != "" {
		w.Header().Set("X-History-ID", id)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// transpose runs one request through the cache, the transposer and the
// history store. It is shared by POST /transpose and the WebSocket.
func (s *Server) transpose(ctx context.Context, source string, req TransposeRequest) (TransposeResult, error) {
	from, to := keyOrDefault(req.From), keyOrDefault(req.To)
	mode := s.cfg.Mode
	if req.Mode != "" {
		m, err := transpose.ParseMode(req.Mode)
		if err != nil {
			return TransposeResult{}, err
		}
		mode = m
	}

	cacheKey := cas.Key(cas.Blake3String(req.Text), from, to, mode.String())
	res, err := s.compute(ctx, cacheKey, req.Text, from, to, mode)
	if err != nil {
		return TransposeResult{}, err
	}

	logging.Transposition(ctx, source, from, to, res.Mode, res.Lines, res.Chords)
	e := history.NewEntry(source, req.Text, res.Text)
	e.FromKey, e.ToKey, e.Mode = from, to, res.Mode
	e.Steps, e.Lines, e.Chords = res.Steps, res.Lines, res.Chords
	res.HistoryID = s.record(ctx, e)
	return res, nil
}

// compute returns the cached result for key or transposes text and caches
// it. Cached results never carry a history ID.
func (s *Server) compute(ctx context.Context, key, text, from, to string, mode transpose.Mode) (TransposeResult, error) {
	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			res.Cached = true
			logging.LoggerFromContext(ctx).Debug("cache hit", "from", from, "to", to, "mode", mode.String())
			return res, nil
		}
	}

	t := transpose.New(transpose.Config{Mode: mode, Logger: logging.LoggerFromContext(ctx)})
	out, err := t.Sheet(text, from, to)
	if err != nil {
		return TransposeResult{}, err
	}

	res := TransposeResult{
		Text:   out.Text,
		From:   from,
		To:     to,
		Mode:   mode.String(),
		Steps:  out.Steps,
		Lines:  out.Lines,
		Chords: out.Chords,
	}
	if s.cache != nil {
		s.cache.Set(key, res)
	}
	return res, nil
}

// record stores e when history is on and returns its ID. A failed write is
// logged and does not fail the request.
func (s *Server) record(ctx context.Context, e history.Entry) string {
	if s.store == nil {
		return ""
	}
	saved, err := s.store.Record(ctx, e)
	if err != nil {
		logging.LoggerFromContext(ctx).Error("history record failed", "error", err)
		return ""
	}
	return saved.ID
}

func keyOrDefault(key string) string {
	if key == "" {
		return defaultKey
	}
	return key
}

func accidentalName(a pitch.Accidental) string {
	if a == pitch.Flat {
		return "flat"
	}
	return "sharp"
}

// bodyError classifies a failure to read or decode a request body.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return errors.NewMalformedOption("body", err.Error())
}

// errorStatus maps an error to an HTTP status and API error code.
func errorStatus(err error) (int, string) {
	var unknownKey *errors.UnknownKeyError
	var parseErr *errors.ParseError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &unknownKey):
		return http.StatusBadRequest, "UNKNOWN_KEY"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, "PARSE_ERROR"
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func apiError(err error) *APIError {
	_, code := errorStatus(err)
	return &APIError{Code: code, Message: err.Error()}
}

func respondErr(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	respondError(w, status, code, err.Error())
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	writeResponse(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondList(w http.ResponseWriter, data interface{}, total int) {
	writeResponse(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeResponse(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func writeResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
