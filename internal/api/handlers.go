package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/danielpatrickdp/persona-harness/internal/bus"
	"github.com/danielpatrickdp/persona-harness/internal/category"
	"github.com/danielpatrickdp/persona-harness/internal/codec"
	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/danielpatrickdp/persona-harness/internal/eval"
	"github.com/danielpatrickdp/persona-harness/internal/interior"
	"github.com/danielpatrickdp/persona-harness/internal/orchestrator"
	"github.com/danielpatrickdp/persona-harness/internal/projection"
)

// #region request-types

type classifyRequest struct {
	Text string `json:"text"`
}

type scoreRequest struct {
	Input    string `json:"input"`
	Response string `json:"response"`
}

// chatRequest is shared by /api/chat and /api/v1/prompt.
type chatRequest struct {
	Session    string             `json:"session,omitempty"`
	Messages   []dialogue.Message `json:"messages"`
	DepthLevel string             `json:"depthLevel"`
	Topics     []string           `json:"topics"`
}

type promptResponse struct {
	Prompt  string         `json:"prompt"`
	Match   category.Match `json:"match"`
	Quotes  int            `json:"quotes"`
	StyleOn bool           `json:"styleActive"`
}

// #endregion request-types

// #region decode

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(v)
}

// turnRequest validates a chat body and converts it to an orchestrator request.
func (req chatRequest) turnRequest() (orchestrator.TurnRequest, error) {
	if len(req.Messages) == 0 {
		return orchestrator.TurnRequest{}, errors.New("no messages")
	}
	for _, m := range req.Messages {
		if m.Role != dialogue.RoleUser && m.Role != dialogue.RoleAssistant {
			return orchestrator.TurnRequest{}, errors.New("unknown role")
		}
	}
	depth, err := projection.ParseDepth(req.DepthLevel)
	if err != nil {
		return orchestrator.TurnRequest{}, err
	}
	topics, err := projection.ParseTopics(req.Topics)
	if err != nil {
		return orchestrator.TurnRequest{}, err
	}
	return orchestrator.TurnRequest{
		Session: req.Session,
		History: req.Messages,
		Depth:   depth,
		Topics:  topics,
	}, nil
}

// #endregion decode

// #region handlers

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	writeJSON(w, http.StatusOK, category.Classify(req.Text))
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	writeJSON(w, http.StatusOK, eval.Score(req.Input, interior.Strip(req.Response)))
}

func (s *Server) prompt(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	req, err := body.turnRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	res, err := s.orch.BuildPrompt(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	writeJSON(w, http.StatusOK, promptResponse{
		Prompt:  res.Prompt,
		Match:   res.Match,
		Quotes:  len(res.Knowledge.Retrieved),
		StyleOn: s.orch.StyleEnabled(),
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	mem := s.orch.Memory()
	if mem == nil {
		writeJSON(w, http.StatusOK, []orchestrator.CategoryStat{})
		return
	}
	stats, err := mem.Stats()
	if err != nil {
		log.Printf("[API] stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read stats")
		return
	}
	if stats == nil {
		stats = []orchestrator.CategoryStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// chat streams the raw reply as server-sent events. Headers are only
// committed with the first fragment, so a generator that fails before
// producing text still gets a plain 500 JSON error.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}
	req, err := body.turnRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}

	flusher, _ := w.(http.Flusher)
	started := false
	onText := func(text string) error {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := codec.WriteSSE(w, text); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	res, err := s.orch.Turn(r.Context(), req, onText)
	if err != nil {
		log.Printf("[API] chat error: %v", err)
		if !started {
			writeError(w, http.StatusInternalServerError, errGenerate)
		}
		return
	}
	if !started {
		// Nothing was streamed; still answer with a well-formed empty stream.
		onText("")
	}
	codec.WriteSSEDone(w)
	if flusher != nil {
		flusher.Flush()
	}

	ev := bus.VerdictEvent{
		TurnID:    res.TurnID,
		Session:   req.Session,
		Category:  string(res.Prompt.Match.Category),
		Score:     res.Score.Score,
		FinalPass: res.Score.FinalPass,
	}
	ev.Failures = append(ev.Failures, res.Score.Form.Failures...)
	ev.Failures = append(ev.Failures, res.Score.Helpfulness.Failures...)
	ev.Failures = append(ev.Failures, res.Score.Engagement.Failures...)
	if err := s.pub.PublishVerdict(ev); err != nil {
		log.Printf("[API] publish verdict: %v", err)
	}
}

// #endregion handlers
