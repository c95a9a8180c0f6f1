package http

import (
	"net/http"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/filter"
)

// searchRequest is the filter criteria plus an optional home ZIP, resolved
// to Home when Home is not given directly.
type searchRequest struct {
	filter.Criteria
	HomeZIP string `json:"home_zip" validate:"omitempty,min=5,max=10"`
}

type searchResponse struct {
	Programs []domain.ProgramRecord `json:"programs"`
	Count    int                    `json:"count"`
	Degraded bool                   `json:"degraded"`
	Warning  string                 `json:"warning,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c := req.Criteria
	var warning string
	if c.Home == nil && req.HomeZIP != "" {
		home, err := s.svc.GeocodeHome(r.Context(), req.HomeZIP)
		switch {
		case err != nil:
			s.logger.Warn("home zip geocoding failed, distance filter skipped", "error", err, "zip", req.HomeZIP)
			warning = "home location unavailable; distance filter skipped"
		case home == nil:
			warning = "home zip not found; distance filter skipped"
		default:
			c.Home = home
		}
	}

	res := s.svc.Search(r.Context(), c)
	if res.Degraded {
		warning = "filters could not be applied; showing all programs"
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Programs: res.Programs,
		Count:    len(res.Programs),
		Degraded: res.Degraded,
		Warning:  warning,
	})
}

func (s *Server) handleBands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, filter.Bands())
}

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	id, err := programIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Program(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProgramMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := programIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.svc.MetricsFor(r.Context(), []int64{id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m[0])
}

type batchMetricsRequest struct {
	ProgramIDs []int64 `json:"program_ids" validate:"required,min=1,max=100,dive,gt=0"`
}

func (s *Server) handleBatchMetrics(w http.ResponseWriter, r *http.Request) {
	var req batchMetricsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.svc.MetricsFor(r.Context(), req.ProgramIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type profileRequest struct {
	Athletic domain.AthleticMetrics `json:"athletic_metrics"`
	Academic domain.AcademicInfo    `json:"academic_info"`
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	id, err := programIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	bundle, err := s.svc.Score(domain.UserProfile{Athletic: req.Athletic, Academic: req.Academic}, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

type geocodeQuery struct {
	ZIP string `validate:"required,min=5,max=10"`
}

type geocodeResponse struct {
	ZIP   string      `json:"zip"`
	Found bool        `json:"found"`
	Home  *domain.Geo `json:"home,omitempty"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	q := geocodeQuery{ZIP: r.URL.Query().Get("zip")}
	if err := validateStruct(&q); err != nil {
		s.writeError(w, r, err)
		return
	}
	home, err := s.svc.GeocodeHome(r.Context(), q.ZIP)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, geocodeResponse{ZIP: q.ZIP, Found: home != nil, Home: home})
}
