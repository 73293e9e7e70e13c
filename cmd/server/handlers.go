package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/teatak/mtag/config"
	"github.com/teatak/mtag/corpus"
	"github.com/teatak/mtag/eval"
	"github.com/teatak/mtag/model"
)

// server holds the hot reloadable model.
type server struct {
	cfg *config.Config

	mu    sync.RWMutex
	model *model.Model
}

func newServer(cfg *config.Config) *server {
	return &server{cfg: cfg}
}

// reload loads the model from disk and swaps it in. The old model stays in
// service when loading fails.
func (s *server) reload() error {
	log.Println("Reloading model...")
	m, err := model.LoadModel(s.cfg.Model.Path)
	if err != nil {
		log.Printf("Error loading model: %v", err)
		return err
	}
	s.mu.Lock()
	s.model = m
	s.mu.Unlock()
	log.Printf("Model reloaded: %d levels, order %d, beam %d.", m.Levels, m.Order, m.Beam)
	return nil
}

func (s *server) current() *model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tag", s.handleTag)
	mux.HandleFunc("/evaluate", s.handleEvaluate)
	mux.HandleFunc("/reload", s.handleReload)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Request/Response types
type TagRequest struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"` // pre-tokenized input; wins over text
}

type TokenJSON struct {
	Form string   `json:"form"`
	Tags []string `json:"tags"`
}

type TagResponse struct {
	Tokens []TokenJSON `json:"tokens"`
}

type EvaluateRequest struct {
	Sentences [][]TokenJSON `json:"sentences"`
	Ranks     int           `json:"ranks,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Levels int    `json:"levels"`
	Order  int    `json:"order"`
	Beam   int    `json:"beam"`
	Forms  int    `json:"forms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) normalize(sent corpus.Sentence) corpus.Sentence {
	mode, err := corpus.ParseMode(s.cfg.Corpus.Normalize)
	if err != nil {
		return sent
	}
	return corpus.NormalizeSentence(sent, mode)
}

func (s *server) handleTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var sent corpus.Sentence
	if len(req.Tokens) > 0 {
		for _, tok := range req.Tokens {
			sent = append(sent, corpus.NewWord(tok))
		}
	} else {
		sent = corpus.TokenizeSentence(req.Text)
	}
	sent = s.normalize(sent)

	m := s.current()
	if err := m.Annotate(sent); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]TokenJSON, len(sent))
	for i, word := range sent {
		out[i] = TokenJSON{Form: word.Form, Tags: word.Tags}
	}
	writeJSON(w, http.StatusOK, TagResponse{Tokens: out})
}

func (s *server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Sentences) == 0 {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'sentences' field")
		return
	}

	sentences := make([]corpus.Sentence, len(req.Sentences))
	for i, tokens := range req.Sentences {
		sent := make(corpus.Sentence, len(tokens))
		for j, tok := range tokens {
			sent[j] = corpus.NewWord(tok.Form, tok.Tags...)
		}
		sentences[i] = s.normalize(sent)
	}

	m := s.current()
	m.Index(sentences)
	ranks := req.Ranks
	if ranks < 1 {
		ranks = s.cfg.Eval.Ranks
	}
	result, err := eval.EvaluateCorpus(r.Context(), m, sentences, eval.Options{
		Ranks:   ranks,
		Workers: s.cfg.Eval.Workers,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result.Summary())
}

func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if err := s.reload(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.handleHealth(w, r)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	m := s.current()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Levels: m.Levels,
		Order:  m.Order,
		Beam:   m.Beam,
		Forms:  m.Words.Size(),
	})
}
