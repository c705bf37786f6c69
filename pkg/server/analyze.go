package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/gitseeker/pkg/ai"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/prefs"
	"github.com/matzehuels/gitseeker/pkg/project"
)

type analyzeRequest struct {
	Source   string `json:"source"`
	FullName string `json:"fullName"`

	// Project optionally carries the search result being analyzed, so the
	// prompt can include its description, language and topics.
	Project *project.Project `json:"project,omitempty"`
}

const maxAnalyzeBody = 1 << 20

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid request body"))
		return
	}
	p, err := analysisTarget(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	readme, ok := s.Readme.FetchByName(ctx, p.Source, p.FullName)
	if !ok {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "Could not find documentation for this project."))
		return
	}

	if s.Prefs == nil {
		s.writeError(w, errs.New(errs.ErrCodeConfig, "preferences store not configured"))
		return
	}
	cfg, err := prefs.LoadAIConfig(ctx, s.Prefs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	provider, err := s.NewProvider(cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	session := ai.NewSession(provider, s.Logger)
	defer session.Close()
	if err := session.Init(ctx, cfg.ResolvedModel()); err != nil {
		s.writeError(w, err)
		return
	}

	rc := http.NewResponseController(w)
	started := false
	_, err = session.Chat(ctx, ai.AnalysisMessages(p, readme), func(tok string) {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		_, _ = fmt.Fprint(w, tok)
		_ = rc.Flush()
	})

	switch {
	case err == nil:
	case errors.Is(err, ai.ErrAborted):
		s.Logger.Debug("analysis aborted by client", "project", p.ID)
	case !started:
		s.writeError(w, err)
	default:
		s.Logger.Warn("analysis stream failed", "project", p.ID, "err", err)
		_, _ = fmt.Fprintf(w, "\n\n[error: %s]", errs.UserMessage(err))
	}
}

func analysisTarget(req analyzeRequest) (project.Project, error) {
	if req.Project != nil {
		if req.Source == "" {
			req.Source = string(req.Project.Source)
		}
		if req.FullName == "" {
			req.FullName = req.Project.FullName
		}
	}
	src, name, err := parseRef(req.Source, req.FullName)
	if err != nil {
		return project.Project{}, err
	}

	var p project.Project
	if req.Project != nil {
		p = *req.Project
	} else {
		p = project.New(src, name)
		p.Name = name
	}
	p.Source = src
	p.FullName = name
	if p.ID == "" {
		p.ID = project.ID(src, name)
	}
	p.Normalize()
	return p, nil
}
