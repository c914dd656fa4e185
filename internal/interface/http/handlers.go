package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/competencias-hub/seguimiento/internal/application/command"
	"github.com/competencias-hub/seguimiento/internal/application/query"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Seguimiento de Competencias API",
		"version":     "v1",
		"description": "REST API for tracking rubric-based competency achievement",
		"endpoints": map[string]string{
			"health":      "/health",
			"groups":      "/api/v1/groups",
			"students":    "/api/v1/groups/{group}/students",
			"achievement": "/api/v1/groups/{group}/achievement",
			"export":      "/api/v1/export/actividades.csv",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Storage != nil {
		if err := s.deps.Storage.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "storage unreachable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListGroups handles GET /api/v1/groups
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListGroupsHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list groups")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListStudents handles GET /api/v1/groups/{group}/students
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	q := query.ListStudentsQuery{Group: r.PathValue("group")}

	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list students")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// registerStudentRequest is the body of POST /api/v1/students.
type registerStudentRequest struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// handleRegisterStudent handles POST /api/v1/students
func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	cmd := command.RegisterStudentCommand{
		Name:  req.Name,
		Group: req.Group,
	}

	result, err := s.deps.RegisterStudentHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to register student")
		return
	}

	writeJSON(w, http.StatusCreated, query.StudentDTO{
		Name:         result.Student.Name.String(),
		Group:        result.Student.Group.String(),
		RegisteredAt: result.Student.RegisteredAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// EVIDENCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// captureActivityRequest is the body of POST /api/v1/evidence.
// Scores maps interchange column names ("SING0101_E1") to level labels;
// omitted pairs stay at "No aplica".
type captureActivityRequest struct {
	Student  string            `json:"student"`
	Group    string            `json:"group"`
	Activity string            `json:"activity"`
	Scores   map[string]string `json:"scores"`
}

// handleCaptureActivity handles POST /api/v1/evidence
func (s *Server) handleCaptureActivity(w http.ResponseWriter, r *http.Request) {
	var req captureActivityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	cmd := command.CaptureActivityCommand{
		Student:  req.Student,
		Group:    req.Group,
		Activity: req.Activity,
		Scores:   req.Scores,
	}

	result, err := s.deps.CaptureActivityHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to capture activity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student":     result.Record.Student.String(),
		"group":       result.Record.Group.String(),
		"activity":    result.Record.Activity.String(),
		"captured_at": result.CapturedAt,
	})
}

// handleGetAchievement handles GET /api/v1/groups/{group}/achievement
func (s *Server) handleGetAchievement(w http.ResponseWriter, r *http.Request) {
	q := query.GetAchievementQuery{
		Group:   r.PathValue("group"),
		Student: getQueryParam(r, "student", ""),
	}

	result, err := s.deps.GetAchievementHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to build achievement report")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExportEvidence handles GET /api/v1/export/actividades.csv
func (s *Server) handleExportEvidence(w http.ResponseWriter, r *http.Request) {
	q := query.ExportEvidenceQuery{
		Group:   getQueryParam(r, "group", ""),
		Student: getQueryParam(r, "student", ""),
	}

	result, err := s.deps.ExportEvidenceHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to export evidence")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMINISTRATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// closeSemesterRequest is the body of POST /api/v1/admin/close.
type closeSemesterRequest struct {
	Scope      string `json:"scope"`
	Group      string `json:"group,omitempty"`
	Student    string `json:"student,omitempty"`
	Passphrase string `json:"passphrase"`
}

// handleCloseSemester handles POST /api/v1/admin/close
func (s *Server) handleCloseSemester(w http.ResponseWriter, r *http.Request) {
	var req closeSemesterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	cmd := command.CloseSemesterCommand{
		Scope:      command.Scope(req.Scope),
		Group:      req.Group,
		Student:    req.Student,
		Passphrase: req.Passphrase,
	}

	result, err := s.deps.CloseSemesterHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to close semester")
		return
	}

	s.logger.Info("semester cleanup executed",
		logger.String("scope", string(result.Scope)),
		logger.String("request_id", getRequestID(r.Context())),
	)

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// SHARED HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody parses a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}

	return true
}

// writeDomainError maps a domain error onto an HTTP status and logs it.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case shared.IsNotFound(err):
		status = http.StatusNotFound
		code = "not_found"
	case shared.IsAlreadyExists(err):
		status = http.StatusConflict
		code = "already_exists"
	case shared.IsUnauthorized(err):
		status = http.StatusUnauthorized
		code = "unauthorized"
	case shared.IsValidation(err), shared.IsInvalidLevel(err):
		status = http.StatusBadRequest
		code = "validation_failed"
	}

	if status >= 500 {
		s.logger.Error(message,
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
	}

	writeJSONError(w, status, code, err.Error())
}
