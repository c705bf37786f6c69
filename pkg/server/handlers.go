package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/gitseeker/pkg/buildinfo"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/project"
	"github.com/matzehuels/gitseeker/pkg/sources"
)

type sourceInfo struct {
	ID         project.Source `json:"id"`
	Label      string         `json:"label"`
	Configured bool           `json:"configured"`
	Default    bool           `json:"default"`
}

type searchResponse struct {
	Query    string            `json:"query"`
	Deep     bool              `json:"deep"`
	Total    int               `json:"total"`
	Projects []project.Project `json:"projects"`
}

type trendingResponse struct {
	Projects []project.Project `json:"projects"`
}

type readmeResponse struct {
	Source   project.Source `json:"source"`
	FullName string         `json:"fullName"`
	Readme   string         `json:"readme"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) listSources(w http.ResponseWriter, _ *http.Request) {
	configured := make(map[project.Source]bool)
	for _, src := range s.Searcher.Sources() {
		configured[src] = true
	}
	defaults := make(map[project.Source]bool)
	for _, src := range project.DefaultSources() {
		defaults[src] = true
	}

	out := make([]sourceInfo, 0, len(project.AllSources()))
	for _, src := range project.AllSources() {
		out = append(out, sourceInfo{
			ID:         src,
			Label:      src.Label(),
			Configured: configured[src],
			Default:    defaults[src],
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	srcs, err := parseSources(q["source"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	deep := true
	if v := q.Get("shallow"); v != "" {
		shallow, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "shallow must be a boolean"))
			return
		}
		deep = !shallow
	}

	projects, err := s.Searcher.Search(r.Context(), q.Get("q"), srcs, deep)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if limit := parseLimit(q.Get("limit")); limit > 0 && limit < len(projects) {
		projects = projects[:limit]
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:    strings.TrimSpace(q.Get("q")),
		Deep:     deep,
		Total:    len(projects),
		Projects: projects,
	})
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	opts := sources.TrendingOptions{Limit: parseLimit(r.URL.Query().Get("limit"))}
	writeJSON(w, http.StatusOK, trendingResponse{Projects: s.Searcher.Trending(r.Context(), opts)})
}

func (s *Server) readme(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	src, name, err := parseRef(q.Get("source"), q.Get("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	text, ok := s.Readme.FetchByName(r.Context(), src, name)
	if !ok {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "no README found for %s %s", src, name))
		return
	}
	writeJSON(w, http.StatusOK, readmeResponse{Source: src, FullName: name, Readme: text})
}

// parseSources accepts repeated and comma-separated source parameters.
// None selects the default sources.
func parseSources(values []string) ([]project.Source, error) {
	var names []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}
	if len(names) == 0 {
		return project.DefaultSources(), nil
	}
	return project.ParseSources(names)
}

func parseRef(source, name string) (project.Source, string, error) {
	src, err := project.ParseSource(source)
	if err != nil {
		return "", "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", errs.New(errs.ErrCodeInvalidInput, "project name is required")
	}
	if err := errs.ValidateProjectName(name); err != nil {
		return "", "", err
	}
	return src, name, nil
}

func parseLimit(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	if errs.IsCallerError(err) {
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeBusy:
		return http.StatusConflict
	case errs.ErrCodeConfig:
		return http.StatusServiceUnavailable
	case errs.ErrCodeUnauthorized, errs.ErrCodeAIProvider:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
