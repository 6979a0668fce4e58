// Package httpapi exposes delegatescan's analysis pipeline over HTTP:
// GET /health and POST /analyze, per SPEC_FULL.md §6.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/maxgio92/delegatescan"
	"github.com/maxgio92/delegatescan/internal/fetch"
	"github.com/maxgio92/delegatescan/internal/obslog"
)

// maxRequestBody bounds POST /analyze bodies at 1 MiB, per SPEC_FULL.md §6.
const maxRequestBody = 1 << 20

// analyzeRequest is either {bytecode} or {address, network?, rpcUrl?}.
type analyzeRequest struct {
	Bytecode string `json:"bytecode"`
	Address  string `json:"address"`
	Network  string `json:"network"`
	RPCURL   string `json:"rpcUrl"`
}

// NewHandler builds the HTTP surface described in SPEC_FULL.md §6.
func NewHandler(log obslog.Logger) http.Handler {
	if log == nil {
		log = obslog.Base()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/analyze", handleAnalyze(log))
	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleAnalyze(log obslog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		if req.Bytecode == "" && req.Address == "" {
			writeError(w, http.StatusBadRequest, "invalid request body", "one of bytecode or address is required")
			return
		}

		bytecode := req.Bytecode
		if bytecode == "" {
			var err error
			bytecode, err = fetch.Code(r.Context(), req.Address, fetch.Options{Network: req.Network, RPCURL: req.RPCURL})
			if err != nil {
				log.Errorf("fetch code for %s: %v", req.Address, err)
				writeAnalysisFailed(w)
				return
			}
		}

		opts := analyzeOptions(req)
		report, err := delegatescan.Analyze(bytecode, opts...)
		if err != nil {
			if errors.Is(err, delegatescan.ErrMalformedBytecode) {
				writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
				return
			}
			log.Errorf("analyze: %v", err)
			writeAnalysisFailed(w)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	}
}

func analyzeOptions(req analyzeRequest) []delegatescan.Option {
	var opts []delegatescan.Option
	if req.Address != "" {
		opts = append(opts, delegatescan.WithContractAddress(req.Address))
	}
	if req.Network != "" {
		opts = append(opts, delegatescan.WithNetwork(req.Network))
	}
	return opts
}

func writeAnalysisFailed(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
}

func writeError(w http.ResponseWriter, status int, errMsg, details string) {
	body := map[string]string{"error": errMsg}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
