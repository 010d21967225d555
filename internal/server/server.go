// Package server hosts row forms over HTTP. Each browser session owns one
// host session; edits arrive either as a whole-form post or streamed over a
// websocket, one change at a time.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-rowform/pkg/catalog"
	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/host"
	"github.com/goliatone/go-rowform/pkg/render"
	"github.com/goliatone/go-rowform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
)

//go:embed templates/*.tmpl
var pageTemplates embed.FS

// Config holds the collaborators the server routes to.
type Config struct {
	Catalog  *catalog.Store
	Sessions *host.Manager
	// Renderer produces the dialog markup. It must emit HTML.
	Renderer render.Renderer
	// Inbox, when set, backs GET /submissions and the index listing.
	Inbox  *host.Inbox
	Logger logrus.FieldLogger
}

// Server wires catalog templates to host sessions.
type Server struct {
	catalog  *catalog.Store
	sessions *host.Manager
	renderer render.Renderer
	inbox    *host.Inbox
	pages    *gotemplate.Engine
	logger   logrus.FieldLogger
}

// New validates cfg and builds a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Catalog == nil || cfg.Sessions == nil || cfg.Renderer == nil {
		return nil, errors.New("server: catalog, sessions and renderer are required")
	}
	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	files, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}
	pages, err := gotemplate.New(gotemplate.WithFS(files), gotemplate.WithExtension(".tmpl"))
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}

	return &Server{
		catalog:  cfg.Catalog,
		sessions: cfg.Sessions,
		renderer: cfg.Renderer,
		inbox:    cfg.Inbox,
		pages:    pages,
		logger:   logger,
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.index)
	r.Get("/submissions", s.listSubmissions)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", s.listTemplates)
		r.Get("/{name}", s.getTemplate)
		r.Post("/{name}/sessions", s.createSession)
	})

	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.showSession)
		r.Delete("/", s.deleteSession)
		r.Get("/values", s.sessionValues)
		r.Post("/submit", s.submitSession)
		r.Post("/cancel", s.cancelSession)
		r.Get("/live", s.live)
	})

	return r
}

// ListenAndServe serves Routes on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Warn("shutdown")
		}
	}()

	s.logger.WithField("addr", addr).Info("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	names := s.catalog.Names()
	templates := make([]map[string]string, 0, len(names))
	for _, name := range names {
		templates = append(templates, map[string]string{
			"name":          name,
			"sessions_path": "/templates/" + url.PathEscape(name) + "/sessions",
		})
	}
	data := map[string]any{
		"title":     "Row forms",
		"templates": templates,
	}
	if s.inbox != nil {
		data["submissions"] = s.inbox.List()
	}
	page, err := s.pages.RenderTemplate("index", data)
	if err != nil {
		s.logger.WithError(err).Error("render index")
		s.writeError(w, http.StatusInternalServerError, "RENDER_ERROR", "could not render index")
		return
	}
	s.writeHTML(w, http.StatusOK, []byte(page))
}

func (s *Server) listTemplates(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"templates": s.catalog.Names()})
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := s.catalog.Template(chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "unknown template: "+chi.URLParam(r, "name"))
		return
	}
	s.writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) listSubmissions(w http.ResponseWriter, _ *http.Request) {
	submissions := []host.Submission{}
	if s.inbox != nil {
		submissions = s.inbox.List()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"submissions": submissions})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tmpl, err := s.catalog.Lookup(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "TEMPLATE_NOT_FOUND", err.Error())
		return
	}
	session, err := s.sessions.Create(tmpl)
	if err != nil {
		s.logger.WithError(err).WithField("template", name).Error("create session")
		s.writeError(w, http.StatusUnprocessableEntity, "INVALID_TEMPLATE", err.Error())
		return
	}
	session.Open()
	http.Redirect(w, r, sessionPath(session.ID, ""), http.StatusSeeOther)
}

func (s *Server) showSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	presentation := session.Presentation()
	markup, err := s.renderer.Render(r.Context(), presentation, render.RenderOptions{
		Action:       sessionPath(session.ID, "submit"),
		CancelAction: sessionPath(session.ID, "cancel"),
		LiveURL:      sessionPath(session.ID, "live"),
		Hidden:       render.MergeHiddenFields(nil, render.SessionField(session.ID)),
	})
	if err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Error("render form")
		s.writeError(w, http.StatusInternalServerError, "RENDER_ERROR", "could not render form")
		return
	}

	page, err := s.pages.RenderTemplate("session", map[string]any{
		"title":      presentation.Title,
		"session_id": session.ID,
		"form":       string(markup),
	})
	if err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Error("render page")
		s.writeError(w, http.StatusInternalServerError, "RENDER_ERROR", "could not render page")
		return
	}
	s.writeHTML(w, http.StatusOK, []byte(page))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionValues(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":      session.ID,
		"visible": session.Visible(),
		"values":  session.Values(),
	})
}

// submitSession applies a posted HTML form to the session, then submits it.
func (s *Server) submitSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}
	if !session.Visible() {
		s.writeFormClosed(w, session)
		return
	}

	for _, event := range postedEvents(session.Template(), r.PostForm) {
		if err := session.Dispatch(event); err != nil {
			s.logger.WithError(err).WithField("session_id", session.ID).Debug("posted value dropped")
		}
	}
	if err := session.Dispatch(form.SubmitPressed{}); err != nil {
		if errors.Is(err, host.ErrFormClosed) {
			s.writeFormClosed(w, session)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "SUBMIT_ERROR", err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := session.Dispatch(form.CancelPressed{}); err != nil {
		if errors.Is(err, host.ErrFormClosed) {
			s.writeFormClosed(w, session)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "CANCEL_ERROR", err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) writeFormClosed(w http.ResponseWriter, session *host.Session) {
	s.writeError(w, http.StatusConflict, "FORM_CLOSED", fmt.Sprintf("session %s is not open", session.ID))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*host.Session, bool) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, host.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
			return nil, false
		}
		s.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return nil, false
	}
	return session, true
}

func sessionPath(id, action string) string {
	path := "/sessions/" + url.PathEscape(id)
	if action == "" {
		return path
	}
	return path + "/" + action
}
