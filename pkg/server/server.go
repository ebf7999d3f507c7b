package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/keymark/pkg/composer"
)

// statsEvery is how many requests pass between cache stat logs.
const statsEvery = 500

// maxDecodeFailures ends the loop when the input keeps producing garbage.
const maxDecodeFailures = 16

// Server handles IPC for one Composer.
type Server struct {
	composer     *composer.Composer
	decoder      *msgpack.Decoder
	out          *bufio.Writer
	encoder      *msgpack.Encoder
	log          *log.Logger
	requestCount int
	readyBanner  bool
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(c *composer.Composer, r io.Reader, w io.Writer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	out := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(out)
	enc.UseCompactInts(true)
	return &Server{
		composer:    c,
		decoder:     msgpack.NewDecoder(bufio.NewReader(r)),
		out:         out,
		encoder:     enc,
		log:         logger,
		readyBanner: true,
	}
}

// SetReadyBanner controls whether Start announces itself with a ready frame.
func (s *Server) SetReadyBanner(enabled bool) {
	s.readyBanner = enabled
}

// Start processes requests until the input ends or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server")
	if s.readyBanner {
		if err := s.send(Response{Status: StatusReady, Keys: s.composer.CatalogSize()}); err != nil {
			return err
		}
	}

	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			failures++
			s.log.Errorf("Decoding request: %v", err)
			if sendErr := s.sendError("", "invalid msgpack request", 400); sendErr != nil {
				return sendErr
			}
			if failures >= maxDecodeFailures {
				return fmt.Errorf("giving up after %d malformed requests: %w", failures, err)
			}
			continue
		}
		failures = 0

		if err := s.handleRequest(ctx, req); err != nil {
			return err
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) error {
	start := time.Now()
	s.requestCount++
	if s.requestCount%statsEvery == 0 {
		s.log.Debug("Matcher stats", "requests", s.requestCount, "stats", s.composer.MatcherStats())
	}

	c := s.composer
	acted := true
	switch req.Op {
	case "edit":
		cursor := len(req.Text)
		if req.Cursor != nil {
			cursor = *req.Cursor
		}
		if req.PrevText != nil {
			prevCursor := len(*req.PrevText)
			if req.PrevCursor != nil {
				prevCursor = *req.PrevCursor
			}
			c.Edit(*req.PrevText, prevCursor, req.Text, cursor)
		} else {
			c.SetText(req.Text, cursor)
		}
	case "cursor":
		if req.Cursor == nil {
			return s.sendError(req.ID, "missing 'c' parameter", 400)
		}
		c.MoveCursor(*req.Cursor)
	case "next":
		acted = c.Next()
	case "prev":
		acted = c.Prev()
	case "accept":
		acted = c.Accept()
	case "pick":
		if req.Key == "" {
			return s.sendError(req.ID, "missing 'k' parameter", 400)
		}
		acted = c.Pick(req.Key)
	case "cancel":
		acted = c.Cancel()
	case "reset":
		c.Reset(req.Text)
	case "refresh":
		c.Refresh(ctx)
	case "state", "health":
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}

	resp := s.stateResponse(req.ID)
	if !acted {
		resp.Status = StatusNoop
	}
	if req.Op == "health" || req.Op == "refresh" {
		resp.Keys = c.CatalogSize()
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return s.send(resp)
}

func (s *Server) stateResponse(id string) Response {
	st := s.composer.State()
	resp := Response{
		ID:       id,
		Status:   StatusOK,
		Text:     st.Text,
		Cursor:   st.Cursor,
		Entities: st.Entities,
	}
	if st.Session != nil {
		resp.Session = &SessionInfo{
			Matches:  rankMatches(st.Session.Matches),
			Selected: st.Session.Selected,
			Anchor:   st.Session.Anchor,
			Prefix:   st.Session.Prefix,
			Tier:     st.Session.Tier.String(),
		}
	}
	return resp
}

// rankMatches numbers candidates in their alphabetical order, starting at 1.
func rankMatches(matches []string) []Suggestion {
	out := make([]Suggestion, len(matches))
	for i, m := range matches {
		out[i] = Suggestion{Word: m, Rank: i + 1}
	}
	return out
}

func (s *Server) send(resp Response) error {
	if err := s.encoder.Encode(resp); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return err
	}
	return s.out.Flush()
}

func (s *Server) sendError(id, message string, code int) error {
	s.log.Debug("Request failed", "id", id, "error", message)
	return s.send(Response{ID: id, Status: StatusError, Error: message, Code: code})
}
