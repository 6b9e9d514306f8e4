// Package server provides the storygen web form and its HTTP API.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/xob0t/storygen/pkg/generator"
	"github.com/xob0t/storygen/pkg/staging"
	"github.com/xob0t/storygen/pkg/story"
)

//go:embed web/*
var webContent embed.FS

const maxUpload = 20 << 20

// Config configures the form server.
type Config struct {
	Addr       string
	StagingDir string
	Story      story.Config
	Open       bool // open the form in a browser once listening
	Logger     *slog.Logger
}

type srv struct {
	composer *story.Composer
	stager   *staging.Stager
	log      *slog.Logger
}

// NewHandler returns the HTTP handler serving the form and API.
func NewHandler(composer *story.Composer, stager *staging.Stager, log *slog.Logger) (http.Handler, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &srv{composer: composer, stager: stager, log: log}

	webFS, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/background", s.handleUploadBackground)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /", http.FileServer(http.FS(webFS)))

	return mux, nil
}

// RunServe serves the form on cfg.Addr until ctx is cancelled.
func RunServe(ctx context.Context, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	stager, err := staging.New(cfg.StagingDir, log)
	if err != nil {
		return err
	}
	composer := story.New(cfg.Story, story.WithLogger(log))

	handler, err := NewHandler(composer, stager, log)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	hs := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := "http://" + ln.Addr().String()
	log.Info("storygen form listening", "url", url, "staging", stager.Dir())
	if cfg.Open {
		go openBrowser(log, url)
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ── Upload ──

func (s *srv) handleUploadBackground(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, story.PromptBackground)
		return
	}
	defer file.Close()

	staged, err := s.stager.SaveUnique(header.Filename, file)
	if err != nil {
		if errors.Is(err, staging.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, unsupportedMessage())
			return
		}
		s.log.Error("stage upload", "name", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, story.FailureMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":   filepath.Base(staged),
		"name": header.Filename,
	})
}

// ── Generate ──

func (s *srv) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, true)
}

func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, false)
}

func (s *srv) render(w http.ResponseWriter, r *http.Request, attachment bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	req := story.Request{
		Message:     r.FormValue("message"),
		Attribution: r.FormValue("attribution"),
		Output:      story.DefaultOutput,
	}
	if id := r.FormValue("background"); id != "" {
		if p, ok := s.stager.Path(id); ok {
			req.Background = p
		}
	}

	req, err := s.composer.Validate(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, story.UserMessage(err))
		return
	}

	data, err := s.renderPNG(req)
	if err != nil {
		s.log.Error("generate story", "background", req.Background, "error", err)
		writeError(w, http.StatusInternalServerError, story.UserMessage(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, req.Output))
	}
	w.Write(data)
}

func (s *srv) renderPNG(req story.Request) ([]byte, error) {
	img, err := s.composer.Render(req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := generator.EncodePNG(&buf, img); err != nil {
		return nil, &story.GenerateError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

func (s *srv) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ── Helpers ──

func unsupportedMessage() string {
	return "Formato não suportado: use " + strings.ToUpper(strings.Join(staging.Extensions(), ", ")) + "."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// browserCommand is the launcher argv for opening url on goos.
func browserCommand(goos, url string) []string {
	switch goos {
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	case "darwin":
		return []string{"open", url}
	default:
		return []string{"xdg-open", url}
	}
}

func openBrowser(log *slog.Logger, url string) {
	argv := browserCommand(runtime.GOOS, url)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		log.Warn("open browser", "command", argv[0], "error", err)
		return
	}
	go cmd.Wait()
}
