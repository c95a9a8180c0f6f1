package http

import (
	"net/http"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/shortlist"
)

type saveClassificationRequest struct {
	profileRequest
	// Classification is the user's own tier. Empty keeps the suggestion.
	Classification string `json:"classification" validate:"omitempty,oneof=Safety Target Reach safety target reach"`
	Notes          string `json:"notes" validate:"max=4000"`
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=4000"`
}

type listResponse struct {
	Classifications []domain.ClassificationRecord `json:"classifications"`
	Summary         fit.Summary                   `json:"summary"`
}

func (s *Server) handleSaveClassification(w http.ResponseWriter, r *http.Request) {
	userID, programID, ok := s.classificationParams(w, r)
	if !ok {
		return
	}
	var req saveClassificationRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	save := shortlist.SaveRequest{
		Profile: domain.UserProfile{
			UserID:   userID,
			Athletic: req.Athletic,
			Academic: req.Academic,
		},
		ProgramID: programID,
		Notes:     req.Notes,
	}
	if req.Classification != "" {
		chosen, err := domain.ParseClassification(req.Classification)
		if err != nil {
			s.writeError(w, r, &requestError{msg: err.Error()})
			return
		}
		save.Chosen = &chosen
	}

	rec, err := s.svc.Save(r.Context(), save)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetClassification(w http.ResponseWriter, r *http.Request) {
	userID, programID, ok := s.classificationParams(w, r)
	if !ok {
		return
	}
	rec, err := s.svc.Get(r.Context(), userID, programID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListClassifications(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recs, err := s.svc.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []domain.ClassificationRecord{}
	}
	writeJSON(w, http.StatusOK, listResponse{Classifications: recs, Summary: fit.Summarize(recs)})
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	userID, programID, ok := s.classificationParams(w, r)
	if !ok {
		return
	}
	var req notesRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.svc.UpdateNotes(r.Context(), userID, programID, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) classificationParams(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	userID, err := userIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return "", 0, false
	}
	programID, err := programIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return "", 0, false
	}
	return userID, programID, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := s.svc.Summary(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
