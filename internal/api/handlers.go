package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/naranjo-adr-assessor/internal/catalog"
	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/settings"
	"github.com/naranjo-adr-assessor/internal/timeline"
)

type localeRequest struct {
	Locale string `json:"locale" binding:"required"`
}

type eventRequest struct {
	DrugName            string `json:"drug_name"`
	ReactionDescription string `json:"reaction_description"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type reportResponse struct {
	*domain.Report
	InterpretationLabel string `json:"interpretation_label"`
	Severity            string `json:"severity"`
}

func (s *Server) handleQuestions(c *gin.Context) {
	locale := s.session.Locale()
	if raw := c.Query("locale"); raw != "" {
		parsed, err := domain.ParseLocale(raw)
		if err != nil {
			s.writeError(c, err)
			return
		}
		locale = parsed
	}

	questions, err := catalog.Questions(locale)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"locale":    locale,
		"language":  catalog.LanguageName(locale),
		"questions": questions,
	})
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetLocale(c *gin.Context) {
	var req localeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.session.SetLocale(req.Locale); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetPatient(c *gin.Context) {
	var req domain.PatientDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.session.SetPatient(req)
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.session.SetEvent(req.DrugName, req.ReactionDescription)
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetAnswer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.writeError(c, domain.NewValidationError("id", "question id must be a number", c.Param("id")))
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	value, err := domain.ParseAnswerValue(req.Answer)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.session.SetAnswer(id, value); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	s.session.Reset()
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleAddHistory(c *gin.Context) {
	var req domain.HistoryItem
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	item, err := s.session.AddHistory(req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleRemoveHistory(c *gin.Context) {
	if err := s.session.RemoveHistory(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleReport(c *gin.Context) {
	report, err := s.session.Report()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportResponse{
		Report:              report,
		InterpretationLabel: catalog.InterpretationLabel(report.Locale, report.Interpretation),
		Severity:            report.Interpretation.Severity(),
	})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	analysis := s.session.Analysis()
	if analysis == nil {
		s.writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleRunAnalysis(c *gin.Context) {
	result, err := s.session.Analyze(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis":        result.Analysis,
		"recommendations": result.Recommendations,
		"riskFactor":      result.RiskFactor,
		"risk_label":      catalog.RiskLabel(s.session.Locale(), result.RiskFactor),
	})
}

func (s *Server) handleClearAnalysis(c *gin.Context) {
	s.session.ClearAnalysis()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTimeline(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Timeline(s.now()))
}

func (s *Server) handleAddExposure(c *gin.Context) {
	var req timeline.ExposureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	exposure, err := s.session.AddExposure(req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exposure)
}

func (s *Server) handleRemoveExposure(c *gin.Context) {
	if err := s.session.RemoveExposure(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddNote(c *gin.Context) {
	var req timeline.NoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	note, err := s.session.AddNote(req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (s *Server) handleRemoveNote(c *gin.Context) {
	if err := s.session.RemoveNote(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	cfg, err := s.settings.Load(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg.Masked())
}

// handleSaveSettings keeps the stored credential when the request leaves it blank, so a
// client that only ever sees the masked value can still edit other fields.
func (s *Server) handleSaveSettings(c *gin.Context) {
	var req domain.AIConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Credential == "" || req.Credential == domain.MaskedCredential {
		current, err := s.settings.Load(ctx)
		if err != nil {
			s.writeError(c, err)
			return
		}
		req.Credential = current.Credential
	}

	normalized, err := settings.Normalize(req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.settings.Save(ctx, normalized); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, normalized.Masked())
}

func (s *Server) handleListModels(c *gin.Context) {
	endpoint := c.Query("endpoint_url")
	if endpoint == "" {
		cfg, err := s.settings.Load(c.Request.Context())
		if err != nil {
			s.writeError(c, err)
			return
		}
		endpoint = cfg.EndpointURL
	}

	models, err := s.models.ListModels(c.Request.Context(), endpoint)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint_url": endpoint, "models": models})
}
