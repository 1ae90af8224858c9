package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
	"github.com/jonathan/resume-tailor/internal/types"
)

// analyzeRequest is the payload for POST /analyze.
type analyzeRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	JobText    string `json:"job_text" validate:"required_without=JobURL,excluded_with=JobURL"`
	JobURL     string `json:"job_url" validate:"omitempty,url"`
	UseBrowser bool   `json:"use_browser"`
	Suggest    bool   `json:"suggest"`
}

// analyzeResponse is the payload for POST /analyze and POST /suggest.
type analyzeResponse struct {
	RunID       *uuid.UUID           `json:"run_id,omitempty"`
	Match       *types.MatchResult   `json:"match"`
	Evidence    []types.EvidenceItem `json:"evidence"`
	Suggestions []types.Suggestion   `json:"suggestions,omitempty"`
	PIITypes    []string             `json:"pii_types,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// decodeAndValidate decodes the JSON body into dst and applies struct
// validation, translating the first failure into an ErrValidation.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return &ErrValidation{Field: first.Field(), Message: fmt.Sprintf("failed on %q", first.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// ingestDocuments builds the sectioned resume and job description from a
// request's text or URL fields.
func (s *Server) ingestDocuments(r *http.Request, resumeText, jobText, jobURL string, useBrowser bool) (*types.SectionedDocument, *types.SectionedDocument, error) {
	resume := ingestion.ParseResumeText(resumeText)

	if jobURL != "" {
		jd, err := ingestion.IngestJDFromURL(r.Context(), jobURL, useBrowser, false)
		if err != nil {
			return nil, nil, &ErrIngestion{Message: err.Error()}
		}
		return resume, jd, nil
	}
	return resume, ingestion.ProcessJDText(jobText), nil
}

// handleAnalyze scores a resume against a job description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	resume, jd, err := s.ingestDocuments(r, req.ResumeText, req.JobText, req.JobURL, req.UseBrowser)
	if err != nil {
		s.handleError(w, err)
		return
	}

	analysis, err := s.pipeline.Analyze(r.Context(), resume, jd, req.JobURL)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := analyzeResponse{
		RunID:    analysis.RunID,
		Match:    analysis.Match,
		Evidence: analysis.Evidence,
		PIITypes: analysis.PIITypes,
		Warnings: analysis.Warnings,
	}

	if req.Suggest {
		runID := uuid.Nil
		if analysis.RunID != nil {
			runID = *analysis.RunID
		}
		suggested, err := s.pipeline.Suggest(r.Context(), resume, jd, analysis.Match, runID)
		if err != nil {
			s.handleError(w, err)
			return
		}
		resp.Match = suggested.Match
		resp.Suggestions = suggested.Suggestions
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// suggestRequest is the payload for POST /suggest. Either a stored run or
// the document texts must be provided.
type suggestRequest struct {
	RunID      string `json:"run_id" validate:"omitempty,uuid"`
	ResumeText string `json:"resume_text" validate:"required_without=RunID"`
	JobText    string `json:"job_text" validate:"required_without_all=RunID JobURL,excluded_with=JobURL"`
	JobURL     string `json:"job_url" validate:"omitempty,url"`
	UseBrowser bool   `json:"use_browser"`
}

// handleSuggest generates rewrite suggestions, either for a stored run or
// for documents supplied inline.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var (
		resume, jd *types.SectionedDocument
		match      *types.MatchResult
		runID      = uuid.Nil
	)

	if req.RunID != "" {
		database := s.pipeline.DB()
		if database == nil {
			s.handleError(w, &ErrPersistenceDisabled{})
			return
		}
		id, err := uuid.Parse(req.RunID)
		if err != nil {
			s.handleError(w, &ErrValidation{Field: "run_id", Message: "not a valid UUID"})
			return
		}
		resume, jd, match, err = s.loadRunDocuments(r, database, id)
		if err != nil {
			s.handleError(w, err)
			return
		}
		runID = id
	} else {
		var err error
		resume, jd, err = s.ingestDocuments(r, req.ResumeText, req.JobText, req.JobURL, req.UseBrowser)
		if err != nil {
			s.handleError(w, err)
			return
		}
		analysis, err := s.pipeline.Analyze(r.Context(), resume, jd, req.JobURL)
		if err != nil {
			s.handleError(w, err)
			return
		}
		match = analysis.Match
		if analysis.RunID != nil {
			runID = *analysis.RunID
		}
	}

	suggested, err := s.pipeline.Suggest(r.Context(), resume, jd, match, runID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := analyzeResponse{
		Match:       suggested.Match,
		Suggestions: suggested.Suggestions,
	}
	if runID != uuid.Nil {
		resp.RunID = &runID
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// loadRunDocuments fetches the stored documents and match for a run.
func (s *Server) loadRunDocuments(r *http.Request, database *db.DB, id uuid.UUID) (*types.SectionedDocument, *types.SectionedDocument, *types.MatchResult, error) {
	resume, err := database.GetResumeByRunID(r.Context(), id)
	if err != nil {
		return nil, nil, nil, err
	}
	jd, err := database.GetJobPostingByRunID(r.Context(), id)
	if err != nil {
		return nil, nil, nil, err
	}
	match, err := database.GetMatchResultByRunID(r.Context(), id)
	if err != nil {
		return nil, nil, nil, err
	}
	if resume == nil || jd == nil || match == nil {
		return nil, nil, nil, &ErrRunNotFound{RunID: id}
	}
	return resume, jd, match, nil
}

// exportRequest is the payload for POST /export.
type exportRequest struct {
	RunID       string             `json:"run_id" validate:"omitempty,uuid"`
	ResumeText  string             `json:"resume_text" validate:"required_without=RunID"`
	Suggestions []types.Suggestion `json:"suggestions"`
}

// handleExport renders the resume with suggestions applied as plain ATS
// text.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var (
		resume      *types.SectionedDocument
		suggestions = req.Suggestions
		runID       = uuid.Nil
	)

	if req.RunID != "" {
		database := s.pipeline.DB()
		if database == nil {
			s.handleError(w, &ErrPersistenceDisabled{})
			return
		}
		id, err := uuid.Parse(req.RunID)
		if err != nil {
			s.handleError(w, &ErrValidation{Field: "run_id", Message: "not a valid UUID"})
			return
		}
		resume, err = database.GetResumeByRunID(r.Context(), id)
		if err != nil {
			s.handleError(w, err)
			return
		}
		if resume == nil {
			s.handleError(w, &ErrRunNotFound{RunID: id})
			return
		}
		if suggestions == nil {
			suggestions, err = database.GetSuggestionsByRunID(r.Context(), id)
			if err != nil {
				s.handleError(w, err)
				return
			}
		}
		runID = id
	} else {
		resume = ingestion.ParseResumeText(req.ResumeText)
	}

	text := s.pipeline.Export(r.Context(), resume, suggestions, runID)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// requireDB returns the database handle or writes a 503.
func (s *Server) requireDB(w http.ResponseWriter) *db.DB {
	database := s.pipeline.DB()
	if database == nil {
		s.handleError(w, &ErrPersistenceDisabled{})
	}
	return database
}

// handleListRuns lists recent analysis runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	database := s.requireDB(w)
	if database == nil {
		return
	}

	runs, err := database.ListRuns(r.Context(), 50)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// runDetail is the payload for GET /runs/{id}.
type runDetail struct {
	Run         *db.Run              `json:"run"`
	Match       *types.MatchResult   `json:"match,omitempty"`
	Evidence    []types.EvidenceItem `json:"evidence,omitempty"`
	Suggestions []types.Suggestion   `json:"suggestions,omitempty"`
}

// handleGetRun returns one run with its stored artifacts.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	database := s.requireDB(w)
	if database == nil {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, &ErrValidation{Field: "id", Message: "not a valid UUID"})
		return
	}

	run, err := database.GetRun(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if run == nil {
		s.handleError(w, &ErrRunNotFound{RunID: id})
		return
	}

	detail := runDetail{Run: run}
	if detail.Match, err = database.GetMatchResultByRunID(r.Context(), id); err != nil {
		s.handleError(w, err)
		return
	}
	if detail.Evidence, err = database.GetEvidenceByRunID(r.Context(), id); err != nil {
		s.handleError(w, err)
		return
	}
	if detail.Suggestions, err = database.GetSuggestionsByRunID(r.Context(), id); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// handleDeleteRun deletes a run and its artifacts.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	database := s.requireDB(w)
	if database == nil {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.handleError(w, &ErrValidation{Field: "id", Message: "not a valid UUID"})
		return
	}
	if err := database.DeleteRun(r.Context(), id); err != nil {
		s.handleError(w, &ErrRunNotFound{RunID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetWeights returns the current scoring weights.
func (s *Server) handleGetWeights(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.pipeline.Engine().Weights())
}

// handleUpdateWeights replaces the scoring weights. Invalid weights are
// rejected without mutating the engine.
func (s *Server) handleUpdateWeights(w http.ResponseWriter, r *http.Request) {
	var weights matching.Weights
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		s.handleError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := s.pipeline.Engine().UpdateWeights(weights); err != nil {
		s.handleError(w, &ErrValidation{Field: "weights", Message: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.pipeline.Engine().Weights())
}

// reloadRequest is the payload for POST /taxonomy/reload.
type reloadRequest struct {
	Dir string `json:"dir"`
}

// handleReloadTaxonomy reloads the skill taxonomy and swaps it in without
// interrupting in-flight requests.
func (s *Server) handleReloadTaxonomy(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	// An empty body reloads from the configured directory.
	_ = json.NewDecoder(r.Body).Decode(&req)
	dir := req.Dir
	if dir == "" {
		dir = s.taxonomyDir
	}
	if dir == "" {
		s.handleError(w, &ErrValidation{Field: "dir", Message: "no taxonomy directory configured"})
		return
	}

	table, err := taxonomy.LoadDir(dir)
	if err != nil {
		s.handleError(w, &ErrValidation{Field: "dir", Message: err.Error()})
		return
	}
	s.pipeline.Store().Swap(table)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"version": table.Version(),
		"skills":  table.Len(),
	})
}
