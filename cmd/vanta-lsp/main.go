// Command vanta-lsp is the Vanta language server: it speaks Content-Length
// framed JSON-RPC over stdin/stdout, following the teacher's cmd/lsp/main.go
// shape (stderr logging, config.IsLSPMode gating downstream formatting).
package main

import (
	"log"
	"os"

	"github.com/vantalang/vanta/internal/config"
)

func main() {
	config.IsLSPMode = true
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	server := NewServer(os.Stdin, os.Stdout)
	if err := server.Start(); err != nil {
		log.Fatalf("language server exited: %v", err)
	}
}
