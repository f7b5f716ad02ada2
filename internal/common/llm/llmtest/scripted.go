// Package llmtest provides a scripted llm.ChatModel for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"material-selector/internal/common/llm"
)

type route struct {
	contains string
	reply    string
	err      error
}

// ScriptedModel answers each request with the first route whose marker
// appears in the system or user message. It records every request.
type ScriptedModel struct {
	mu       sync.Mutex
	routes   []route
	requests []llm.Request
}

func NewScriptedModel() *ScriptedModel {
	return &ScriptedModel{}
}

// On replies with reply to requests containing marker.
func (m *ScriptedModel) On(marker, reply string) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route{contains: marker, reply: reply})
	return m
}

// FailOn fails requests containing marker with err.
func (m *ScriptedModel) FailOn(marker string, err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route{contains: marker, err: err})
	return m
}

func (m *ScriptedModel) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	routes := append([]route(nil), m.routes...)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, r := range routes {
		if strings.Contains(req.System, r.contains) || strings.Contains(req.User, r.contains) {
			if r.err != nil {
				return "", r.err
			}
			return r.reply, nil
		}
	}
	return "", fmt.Errorf("no scripted reply for call site %q", req.CallSite)
}

// Requests returns a copy of every request seen so far.
func (m *ScriptedModel) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.requests...)
}

// RequestFor returns the first request containing marker.
func (m *ScriptedModel) RequestFor(marker string) (llm.Request, bool) {
	for _, req := range m.Requests() {
		if strings.Contains(req.System, marker) || strings.Contains(req.User, marker) {
			return req, true
		}
	}
	return llm.Request{}, false
}
