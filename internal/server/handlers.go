package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/kotomap/kotomap/pkg/errors"
	"github.com/kotomap/kotomap/pkg/expand"
	"github.com/kotomap/kotomap/pkg/generate"
	"github.com/kotomap/kotomap/pkg/graph"
	"github.com/kotomap/kotomap/pkg/render"
	"github.com/kotomap/kotomap/pkg/sanitize"
	"github.com/kotomap/kotomap/pkg/session"
)

// sessionResponse is returned by session creation and graph reads.
type sessionResponse struct {
	SessionID string         `json:"sessionId"`
	Domain    string         `json:"domain"`
	Graph     graph.Snapshot `json:"graph"`
}

// handleCreateSession creates a session with a fresh single-root graph.
//
//	POST /v1/sessions -> 201 {sessionId, domain, graph}
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	cat := s.cfg.Catalog
	g, err := graph.New(graph.Node{
		ID:     cat.RootNode.ID,
		Label:  cat.RootNode.Label,
		Kind:   cat.RootNode.Kind,
		Placed: true,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	exp, err := expand.New(expand.Config{
		Graph:     g,
		Generator: s.cfg.Generator,
		Catalog:   cat,
		Logger:    s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := session.New(exp, s.cfg.SessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("session created", "session", sess.ID, "domain", cat.Name)
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		Domain:    cat.Name,
		Graph:     exp.Snapshot(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetGraph returns the session's current snapshot.
//
//	GET /v1/sessions/{sessionID}/graph -> 200 {sessionId, domain, graph}
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Domain:    s.cfg.Catalog.Name,
		Graph:     sess.Expander.Snapshot(),
	})
}

// expandRequest is the body of a session expand call.
type expandRequest struct {
	NodeID string `json:"nodeId"`
}

// expandResponse reports what the expansion added plus the full new state.
type expandResponse struct {
	FocusID string               `json:"focusId"`
	Nodes   []graph.SnapshotNode `json:"nodes"`
	Edges   []graph.SnapshotEdge `json:"edges"`
	Graph   graph.Snapshot       `json:"graph"`
}

// handleExpand runs one expansion inside a session.
//
//	POST /v1/sessions/{sessionID}/expand {nodeId} -> 200 {focusId, nodes, edges, graph}
//
// Returns 409 while another expansion is in flight and 404 for an unknown
// node. Expanding an already-expanded node is a no-op that returns the
// unchanged graph.
func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req expandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := apperrors.ValidateNodeID(req.NodeID); err != nil {
		writeError(w, err)
		return
	}

	res, err := sess.Expander.Expand(r.Context(), req.NodeID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := expandResponse{
		FocusID: res.FocusID,
		Graph:   sess.Expander.Snapshot(),
	}
	for _, n := range res.Nodes {
		resp.Nodes = append(resp.Nodes, graph.SnapshotNode{
			ID: n.ID, Label: n.Label, Kind: n.Kind, Depth: n.Depth, X: n.Pos.X, Y: n.Pos.Y,
		})
	}
	for _, e := range res.Edges {
		resp.Edges = append(resp.Edges, graph.SnapshotEdge{
			ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRender returns the session graph as an image.
//
//	GET /v1/sessions/{sessionID}/render?format=svg|png|dot
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	// The snapshot runs under the expander's read lock so a concurrent
	// expansion never mutates the graph mid-walk.
	var dot string
	sess.Expander.View(func(g *graph.Graph) {
		dot = render.ToDOT(g, s.cfg.Catalog, render.Options{ShowEdgeLabels: true})
	})

	switch format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
	case "svg":
		data, err := render.SVG(dot)
		if err != nil {
			writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
	case "png":
		data, err := render.PNG(dot)
		if err != nil {
			writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render png"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	default:
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", format))
	}
}

// statelessExpandRequest is the body of the sessionless expand endpoint. The
// current wire shape sends existingElementIds; existingNodeIds is the legacy
// field older clients still send, accepted with degraded edge-ID collision
// checking.
type statelessExpandRequest struct {
	Focus              generate.FocusNode `json:"focusNode"`
	ExistingElementIDs []string           `json:"existingElementIds"`
	ExistingNodeIDs    []string           `json:"existingNodeIds"`
}

// statelessExpandResponse is the sanitized batch for the client to merge.
type statelessExpandResponse struct {
	Nodes []graph.SnapshotNode `json:"nodes"`
	Edges []graph.SnapshotEdge `json:"edges"`
}

// handleStatelessExpand generates and sanitizes one expansion without any
// server-side graph state: the client owns the graph and sends its claimed
// IDs with each call.
//
//	POST /v1/expand {focusNode, existingElementIds} -> 200 {nodes, edges}
func (s *Server) handleStatelessExpand(w http.ResponseWriter, r *http.Request) {
	var req statelessExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := apperrors.ValidateNodeID(req.Focus.ID); err != nil {
		writeError(w, err)
		return
	}

	usedIDs := req.ExistingElementIDs
	if usedIDs == nil {
		usedIDs = req.ExistingNodeIDs
	}

	raw, err := s.cfg.Generator.Expand(r.Context(), generate.Request{
		Focus:              req.Focus,
		ExistingElementIDs: usedIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	payload, err := generate.DecodePayload(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	res := sanitize.Expansion(sanitize.Input{
		FocusID:    req.Focus.ID,
		FocusDepth: req.Focus.Depth,
		UsedIDs:    usedIDs,
		Payload:    payload,
	}, s.cfg.Catalog)

	var resp statelessExpandResponse
	for _, n := range res.Nodes {
		resp.Nodes = append(resp.Nodes, graph.SnapshotNode{
			ID: n.ID, Label: n.Label, Kind: n.Kind, Depth: n.Depth,
		})
	}
	for _, e := range res.Edges {
		resp.Edges = append(resp.Edges, graph.SnapshotEdge{
			ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	sess.Touch(s.cfg.SessionTTL)
	return sess, nil
}
