package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/vantalang/vanta/internal/inferrer"
	"github.com/vantalang/vanta/internal/ir"
	"github.com/vantalang/vanta/internal/lint"
	"github.com/vantalang/vanta/internal/pipeline"
	"github.com/vantalang/vanta/internal/sigtable"
)

// documentState is one open document's last-known text plus the result of
// the most recent pipeline run over it, kept around so hover can answer
// without re-running inference.
type documentState struct {
	text    string
	ctx     *pipeline.PipelineContext
	effects inferrer.EffectMap
}

// Server is the Vanta language server: it reads Content-Length framed
// JSON-RPC from reader, runs the effect pipeline on every changed document,
// and writes diagnostics back to writer. The read loop and message framing
// follow the teacher's cmd/lsp/server.go; the message set is narrowed to
// what this checker actually needs (initialize, didOpen/didChange, hover).
type Server struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	sigs      *sigtable.Table
	documents map[string]*documentState
}

func NewServer(r io.Reader, w io.Writer) *Server {
	return &Server{
		reader:    bufio.NewReader(r),
		writer:    w,
		sigs:      sigtable.NewBuiltins(),
		documents: map[string]*documentState{},
	}
}

// Start runs the read loop until the stream closes.
func (s *Server) Start() error {
	for {
		content, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		s.handleMessage(content)
	}
}

func (s *Server) readMessage() ([]byte, error) {
	var length int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:")))
			if err != nil {
				return nil, fmt.Errorf("bad Content-Length header %q: %w", line, err)
			}
			length = n
		}
	}

	content := make([]byte, length)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Server) handleMessage(content []byte) {
	var raw struct {
		ID     any             `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(content, &raw); err != nil {
		log.Printf("malformed message: %v", err)
		return
	}

	if raw.ID != nil {
		s.handleRequest(raw.ID, raw.Method, raw.Params)
		return
	}
	s.handleNotification(raw.Method, raw.Params)
}

func (s *Server) handleRequest(id any, method string, params json.RawMessage) {
	switch method {
	case "initialize":
		s.respond(id, InitializeResult{Capabilities: ServerCapabilities{TextDocumentSync: 1}}, nil)
	case "shutdown":
		s.respond(id, nil, nil)
	case "textDocument/hover":
		s.handleHover(id, params)
	default:
		s.respond(id, nil, &RPCError{Code: -32601, Message: "method not found: " + method})
	}
}

func (s *Server) handleNotification(method string, params json.RawMessage) {
	switch method {
	case "textDocument/didOpen":
		var p DidOpenTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			log.Printf("bad didOpen params: %v", err)
			return
		}
		s.analyze(p.TextDocument.URI, p.TextDocument.Text)
	case "textDocument/didChange":
		var p DidChangeTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			log.Printf("bad didChange params: %v", err)
			return
		}
		if len(p.ContentChanges) == 0 {
			return
		}
		// Full-document sync only (ServerCapabilities.TextDocumentSync=1):
		// the last change event carries the complete new text.
		text := p.ContentChanges[len(p.ContentChanges)-1].Text
		s.analyze(p.TextDocument.URI, text)
	case "exit":
		// nothing to flush; the process exits when stdin closes.
	}
}

// analyze runs the pipeline over uri's new text, caches the result, and
// publishes fresh diagnostics derived from parse errors and internal/lint.
func (s *Server) analyze(uri, text string) {
	pl := pipeline.New(pipeline.ParseStage{}, pipeline.NewInferStage(s.sigs))
	pctx := pl.Run(pipeline.NewPipelineContext(uri, text))

	var diags []Diagnostic
	for _, perr := range pctx.ParseErrors {
		diags = append(diags, Diagnostic{Message: perr.Error(), Severity: 1})
	}
	if pctx.Module != nil {
		for _, d := range lint.Run(&lint.Pass{Module: pctx.Module, Effects: pctx.Effects, Failures: pctx.Failures}) {
			diags = append(diags, Diagnostic{Message: d.Message, Severity: 2})
		}
	}
	if diags == nil {
		diags = []Diagnostic{}
	}

	s.mu.Lock()
	s.documents[uri] = &documentState{text: text, ctx: pctx, effects: pctx.Effects}
	s.mu.Unlock()

	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

// handleHover reports the inferred effect of the definition at the cursor.
// Position is resolved at definition granularity (by line count from the
// start of the document) rather than exact node span, since the IR does not
// carry source ranges (SPEC_FULL.md §6 scopes spans out of the inferencer).
func (s *Server) handleHover(id any, params json.RawMessage) {
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		Position Position `json:"position"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		s.respond(id, nil, &RPCError{Code: -32602, Message: "bad hover params"})
		return
	}

	s.mu.Lock()
	doc := s.documents[p.TextDocument.URI]
	s.mu.Unlock()
	if doc == nil || doc.ctx.Module == nil {
		s.respond(id, map[string]any{"contents": ""}, nil)
		return
	}

	def := defAtLine(doc.ctx.Module, doc.text, p.Position.Line)
	if def == nil {
		s.respond(id, map[string]any{"contents": ""}, nil)
		return
	}

	eff, ok := doc.effects[def.ID()]
	contents := ""
	if ok {
		contents = fmt.Sprintf("%s : %s", def.Name, eff)
	}
	s.respond(id, map[string]any{"contents": contents}, nil)
}

// defAtLine returns the last definition whose source line is <= line,
// approximating "the definition containing the cursor" without source
// spans: Vanta definitions are one-per-line in practice (SPEC_FULL.md §12
// REPL shorthand mirrors this).
func defAtLine(m *ir.Module, text string, line int) *ir.Def {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return nil
	}

	var best *ir.Def
	lineOf := map[string]int{}
	idx := 0
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "def ") {
			if idx < len(m.Defs) {
				lineOf[m.Defs[idx].Name] = i
				idx++
			}
		}
	}
	for _, def := range m.Defs {
		if defLine, ok := lineOf[def.Name]; ok && defLine <= line {
			best = def
		}
	}
	return best
}

func (s *Server) respond(id any, result any, rpcErr *RPCError) {
	s.write(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: result, Error: rpcErr})
}

func (s *Server) notify(method string, params any) {
	s.write(NotificationMessage{Jsonrpc: "2.0", Method: method, Params: params})
}

func (s *Server) write(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshaling message: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
}
