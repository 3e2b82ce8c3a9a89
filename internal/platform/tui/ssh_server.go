package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/heapdefence/internal/config"
	"github.com/vovakirdan/heapdefence/internal/core"
	"github.com/vovakirdan/heapdefence/internal/registry"
	"github.com/vovakirdan/heapdefence/internal/status"
	"github.com/vovakirdan/heapdefence/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HTTPAddress enables the status API when non-empty (e.g., ":8080").
	HTTPAddress string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the path to the session journal.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the configuration every session starts from.
	Game config.HeapDefenceConfig

	// Runtime carries the --fps and --seed overrides.
	Runtime core.RuntimeConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/heapdefence.db",
		IdleTimeout: 30 * time.Minute,
		Game:        config.Default(),
	}
}

// SSHServer serves one independent game per SSH session.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	http     *http.Server
	store    *storage.Store
	sessions *registry.Registry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "heapdefence-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open session journal", "error", err)
		// Continue without a journal
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: registry.New(),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server

	if cfg.HTTPAddress != "" {
		var journal status.Journal
		if store != nil {
			journal = store
		}
		srv.http = &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           status.NewRouter(srv.sessions, journal, logger.WithPrefix("http")),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return srv, nil
}

// teaHandler starts a fresh game for each SSH session. The session's
// context ends when the client disconnects, which the engine turns into
// a Back press.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	runtime := s.config.Runtime
	runtime.ScreenW = pty.Window.Width
	runtime.ScreenH = pty.Window.Height

	sess, err := NewSession(SessionOptions{
		Config:  s.config.Game,
		Runtime: runtime,
		Player:  sshSession.User(),
		Mode:    storage.ModeSSH,
		Logger:  s.logger,
	})
	if err != nil {
		s.logger.Error("cannot create session", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	info := registry.Session{
		ID:        sess.ID(),
		Player:    sshSession.User(),
		Mode:      storage.ModeSSH,
		Remote:    sshSession.RemoteAddr().String(),
		StartedAt: time.Now(),
	}
	if err := s.sessions.Add(info); err != nil {
		s.logger.Warn("session not listed", "error", err)
	}

	ctx := sshSession.Context()
	sess.Start(ctx)
	go s.finish(ctx, sess)

	return sess.Model(), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// finish waits for a session's engine to stop, unlists it and journals it.
func (s *SSHServer) finish(ctx context.Context, sess *Session) {
	sum, err := sess.Wait()
	defer s.sessions.Remove(sess.ID())
	if err != nil {
		s.logger.Error("session failed", "session", sess.ID(), "error", err)
	}

	reason := EndQuit
	if ctx.Err() != nil {
		reason = EndDisconnect
	}
	s.save(sess.Record(sum, reason))
}

func (s *SSHServer) save(rec storage.SessionRecord) {
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveSession(rec); err != nil {
		s.logger.Warn("could not journal session", "session", rec.SessionID, "error", err)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.sessions.Len(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server (and the status API when enabled)
// and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	if s.http != nil {
		s.logger.Info("starting status API", "address", s.http.Addr)
		go func() {
			if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("status API error", "error", err)
			}
		}()
	}

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the servers. Open sessions see their context
// end and are journaled as disconnects.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if s.http != nil {
		errs = append(errs, s.http.Shutdown(ctx))
	}
	errs = append(errs, s.server.Shutdown(ctx))

	// Let running sessions reach the journal before it closes.
	for s.sessions.Len() > 0 && ctx.Err() == nil {
		time.Sleep(50 * time.Millisecond)
	}
	s.closeStore()

	return errors.Join(errs...)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Sessions returns the registry of running games.
func (s *SSHServer) Sessions() *registry.Registry {
	return s.sessions
}
