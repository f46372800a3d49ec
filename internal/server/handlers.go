package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/evaluation"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/source"
	"github.com/jonathan/resume-scorer/internal/types"
)

// uploadField is the multipart field carrying the PDF.
const uploadField = "file"

// ScoreResponse represents the response for /score/pdf
type ScoreResponse struct {
	RunID        string             `json:"run_id"`
	ResumeID     string             `json:"resume_id"`
	Report       *types.ScoreReport `json:"report"`
	Resume       *types.Resume      `json:"resume"`
	GitHub       *types.GitHubData  `json:"github,omitempty"`
	Website      *types.WebsiteData `json:"website,omitempty"`
	Warnings     []string           `json:"warnings,omitempty"`
	CachedStages []string           `json:"cached_stages,omitempty"`
}

// EvaluationsResponse represents the response for /evaluations
type EvaluationsResponse struct {
	Evaluations []db.EvaluationRow   `json:"evaluations"`
	Rankings    []evaluation.Ranking `json:"rankings"`
}

// uploadError is a rejected upload with its status code
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

// readUpload reads the uploaded PDF from a multipart request.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*source.Input, error) {
	if r.ContentLength > s.maxUpload {
		return nil, &uploadError{http.StatusRequestEntityTooLarge, "file exceeds upload limit"}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &uploadError{http.StatusRequestEntityTooLarge, "file exceeds upload limit"}
		}
		return nil, &uploadError{http.StatusBadRequest, "multipart field 'file' is required"}
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if header.Filename == "" || name == "." || name == "/" {
		return nil, &uploadError{http.StatusBadRequest, "empty filename"}
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, &uploadError{http.StatusBadRequest, "only PDF files are supported"}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &uploadError{http.StatusRequestEntityTooLarge, "file exceeds upload limit"}
		}
		return nil, &uploadError{http.StatusBadRequest, "failed to read upload"}
	}
	if len(data) == 0 {
		return nil, &uploadError{http.StatusBadRequest, "uploaded file is empty"}
	}
	return &source.Input{Ref: uploadRef(name, data), Data: data}, nil
}

// uploadRef names an upload by its file name and content digest, so that
// different files sharing a name get distinct cache and store keys.
func uploadRef(name string, data []byte) string {
	sum := sha256.Sum256(data)
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + hex.EncodeToString(sum[:])[:12] + ext
}

// score runs the pipeline and stores the evaluation when a store is set.
func (s *Server) score(ctx context.Context, in *source.Input, cb pipeline.ProgressCallback) (*ScoreResponse, error) {
	res, err := s.scorer.RunWithProgress(ctx, in, cb)
	if err != nil {
		return nil, err
	}

	resp := &ScoreResponse{
		RunID:        res.RunID.String(),
		ResumeID:     res.ResumeID,
		Report:       res.Report,
		Resume:       res.Resume,
		GitHub:       res.GitHub,
		Website:      res.Website,
		Warnings:     res.Warnings,
		CachedStages: res.Cached,
	}
	if s.store != nil {
		if err := s.store.SaveEvaluation(ctx, res.Report); err != nil {
			s.log.Warn("failed to store evaluation", zap.String("resume_id", res.ResumeID), zap.Error(err))
			resp.Warnings = append(resp.Warnings, "evaluation was not stored")
		}
	}
	return resp, nil
}

func (s *Server) failure(err error) (int, ErrorResponse) {
	var upErr *uploadError
	if errors.As(err, &upErr) {
		return upErr.status, ErrorResponse{Error: upErr.message}
	}
	return HTTPStatus(err), ErrorResponse{Error: err.Error(), Stage: stageOf(err)}
}

// handleScorePDF scores an uploaded resume PDF
func (s *Server) handleScorePDF(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUpload(w, r)
	if err == nil {
		var resp *ScoreResponse
		if resp, err = s.score(r.Context(), in, nil); err == nil {
			s.jsonResponse(w, http.StatusOK, resp)
			return
		}
		s.log.Error("scoring failed", zap.String("file", in.Ref), zap.Error(err))
	}
	status, body := s.failure(err)
	s.jsonResponse(w, status, body)
}

// handleScorePDFStream scores an uploaded PDF and streams stage progress as
// Server-Sent Events, ending with a result or error event.
func (s *Server) handleScorePDFStream(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUpload(w, r)
	if err != nil {
		status, body := s.failure(err)
		s.jsonResponse(w, status, body)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.score(r.Context(), in, func(e pipeline.ProgressEvent) {
		if werr := sse.WriteEvent("progress", e); werr != nil {
			s.log.Debug("progress event dropped", zap.Error(werr))
		}
	})
	if err != nil {
		s.log.Error("scoring failed", zap.String("file", in.Ref), zap.Error(err))
		_, body := s.failure(err)
		sse.WriteError(body)
		return
	}
	sse.WriteResult(resp)
}

// handleListEvaluations lists stored evaluations best first
func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "evaluation storage is not configured")
		return
	}

	limit := db.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := s.store.ListEvaluations(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list evaluations", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list evaluations")
		return
	}
	if rows == nil {
		rows = []db.EvaluationRow{}
	}
	s.jsonResponse(w, http.StatusOK, EvaluationsResponse{
		Evaluations: rows,
		Rankings:    evaluation.RankCandidates(db.Reports(rows)),
	})
}

// handleGetEvaluation returns one stored report by resume ID
func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "evaluation storage is not configured")
		return
	}

	id := r.PathValue("id")
	report, err := s.store.GetEvaluation(r.Context(), id)
	if err != nil {
		s.log.Error("failed to get evaluation", zap.String("resume_id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get evaluation")
		return
	}
	if report == nil {
		s.errorResponse(w, http.StatusNotFound, "evaluation not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}
