/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5/middleware"

	"protoreview.dev/reviewer/adapter"
	"protoreview.dev/reviewer/agent"
	"protoreview.dev/reviewer/result"
	"protoreview.dev/reviewer/tools"
)

// reviewer is the slice of agent.Reviewer the handlers need; tests swap in
// a fake.
type reviewer interface {
	Review(ctx context.Context, protoContent string, rc agent.ReviewContext) (*agent.ReviewResult, error)
	ReviewStructured(ctx context.Context, protoContent string, rc agent.ReviewContext) (*agent.ReviewResult, error)
}

type handlers struct {
	// newReviewer builds a reviewer for the provider/model a request asks
	// for. Adapters hold per-provider credentials, so construction happens
	// per request rather than at startup.
	newReviewer func(ctx context.Context, provider, model string) (reviewer, error)
}

func newHandlers(registry *tools.Registry) *handlers {
	return &handlers{
		newReviewer: func(ctx context.Context, provider, model string) (reviewer, error) {
			a, err := adapter.New(ctx, provider, model)
			if err != nil {
				return nil, err
			}
			return agent.New(a, registry), nil
		},
	}
}

type reviewRequest struct {
	ProtoContent string `json:"proto_content"`
}

type reviewResponse struct {
	Issues   []result.Issue `json:"issues"`
	Summary  string         `json:"summary"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
}

type rawReviewResponse struct {
	RawResponse string `json:"raw_response"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
}

type healthResponse struct {
	Status             string   `json:"status"`
	AvailableProviders []string `json:"available_providers"`
}

type providersResponse struct {
	Available []string `json:"available"`
	Supported []string `json:"supported"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:             "healthy",
		AvailableProviders: adapter.AvailableProviders(),
	})
}

func (h *handlers) providers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, providersResponse{
		Available: adapter.AvailableProviders(),
		Supported: adapter.SupportedProviders,
	})
}

func (h *handlers) review(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := clog.FromContext(ctx).With("request_id", middleware.GetReqID(ctx))
	log.Infof("structured review request received")

	res, ok := h.runReview(w, r, true)
	if !ok {
		return
	}

	if res.Structured != nil && res.Structured.Error != "" {
		log.Errorf("review error: %s", res.Structured.Error)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "Review processing failed"})
		return
	}

	log.Infof("review completed: provider=%s, model=%s, iterations=%d", res.Provider, res.Model, res.Iterations)

	resp := reviewResponse{Issues: []result.Issue{}, Provider: res.Provider, Model: res.Model}
	if res.Structured != nil {
		if res.Structured.Issues != nil {
			resp.Issues = res.Structured.Issues
		}
		resp.Summary = res.Structured.Summary
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) reviewRaw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := clog.FromContext(ctx).With("request_id", middleware.GetReqID(ctx))
	log.Infof("raw review request received")

	res, ok := h.runReview(w, r, false)
	if !ok {
		return
	}

	log.Infof("raw review completed: provider=%s, model=%s, iterations=%d", res.Provider, res.Model, res.Iterations)

	writeJSON(w, http.StatusOK, rawReviewResponse{
		RawResponse: res.Content,
		Provider:    res.Provider,
		Model:       res.Model,
	})
}

// runReview handles everything the two review endpoints share: decoding,
// validation, reviewer construction, and error mapping. On failure it has
// already written the response and returns ok=false.
func (h *handlers) runReview(w http.ResponseWriter, r *http.Request, structured bool) (*agent.ReviewResult, bool) {
	ctx := r.Context()
	log := clog.FromContext(ctx).With("request_id", middleware.GetReqID(ctx))

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body"})
		return nil, false
	}
	if strings.TrimSpace(req.ProtoContent) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "proto_content cannot be empty"})
		return nil, false
	}

	rc, err := agent.NewReviewContext(ctx, r.URL.Query().Get("focus"))
	if err != nil {
		log.Errorf("review context: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "An internal error occurred"})
		return nil, false
	}

	rev, err := h.newReviewer(ctx, r.URL.Query().Get("provider"), r.URL.Query().Get("model"))
	if err != nil {
		// Factory errors are configuration problems: unknown provider or
		// missing credentials.
		log.Warnf("adapter selection failed: %v", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
		return nil, false
	}

	var res *agent.ReviewResult
	if structured {
		res, err = rev.ReviewStructured(ctx, req.ProtoContent, rc)
	} else {
		res, err = rev.Review(ctx, req.ProtoContent, rc)
	}
	if err != nil {
		var inputErr *agent.InputError
		if errors.As(err, &inputErr) {
			log.Warnf("validation error: %v", inputErr)
			writeJSON(w, http.StatusBadRequest, errorBody{Detail: inputErr.Reason})
			return nil, false
		}
		log.Errorf("unexpected error during review: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "An internal error occurred"})
		return nil, false
	}
	return res, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
