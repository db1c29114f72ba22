package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"cloud-cli-mcp/pkg/logging"
)

const (
	legacyInvokeMethod = "tool.invoke"
	maxRequestBody     = 4 << 20

	jsonRPCInvalidRequest = -32600
	jsonRPCInvalidParams  = -32602
	jsonRPCParseError     = -32700
)

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type legacyInvokeParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// legacyInvoke answers POST requests whose JSON-RPC method is tool.invoke
// and passes everything else to next unchanged.
func (s *Server) legacyInvoke(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
		r.Body.Close()
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		var env rpcEnvelope
		if json.Unmarshal(body, &env) != nil || env.Method != legacyInvokeMethod {
			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			next.ServeHTTP(w, r)
			return
		}

		s.serveLegacyInvoke(w, r, env)
	})
}

func (s *Server) serveLegacyInvoke(w http.ResponseWriter, r *http.Request, env rpcEnvelope) {
	resp := rpcResponse{JSONRPC: "2.0", ID: env.ID}
	if len(resp.ID) == 0 {
		resp.ID = json.RawMessage("null")
	}

	var params legacyInvokeParams
	switch {
	case len(env.Params) == 0:
		resp.Error = &rpcError{Code: jsonRPCInvalidRequest, Message: "missing params"}
	case json.Unmarshal(env.Params, &params) != nil:
		resp.Error = &rpcError{Code: jsonRPCParseError, Message: "params must be {name, arguments}"}
	case params.Name != s.opts.ToolName:
		resp.Error = &rpcError{Code: jsonRPCInvalidParams, Message: "unknown tool: " + params.Name}
	default:
		if params.Arguments == nil {
			params.Arguments = map[string]any{}
		}
		logging.Debug("Server", "Legacy tool.invoke for %s", params.Name)
		resp.Result = s.dispatcher.Dispatch(r.Context(), params.Arguments)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Server", "Failed to write response: %v", err)
	}
}
