package handler

import (
	"net/http"

	"veil/internal/model"
	"veil/internal/privacy"
)

// PrivacyHandler serves the privacy toggle and score endpoints.
type PrivacyHandler struct {
	engine *privacy.Engine
}

// NewPrivacyHandler creates a new PrivacyHandler around the engine.
func NewPrivacyHandler(engine *privacy.Engine) *PrivacyHandler {
	return &PrivacyHandler{engine: engine}
}

// GetScores handles GET /privacy/scores
// @Summary      Get privacy settings and scores
// @Description  Returns the current toggle states and the derived privacy scores
// @Tags         privacy
// @Produce      json
// @Success      200  {object}  model.PrivacyResponse
// @Router       /privacy/scores [get]
func (h *PrivacyHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.response())
}

// SetToggle handles PUT /privacy/settings/{name}
// @Summary      Set a privacy toggle
// @Description  Flips one named toggle and recomputes the overall score
// @Tags         privacy
// @Accept       json
// @Produce      json
// @Param        name     path      string               true  "Toggle name"
// @Param        request  body      model.ToggleRequest  true  "Toggle value"
// @Success      200      {object}  model.PrivacyResponse
// @Router       /privacy/settings/{name} [put]
func (h *PrivacyHandler) SetToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed. Should be PUT", http.StatusMethodNotAllowed)
		return
	}

	var req model.ToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.engine.SetToggle(r.PathValue("name"), req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, h.response())
}

// SetLevel handles PUT /privacy/level
// @Summary      Select a privacy level preset
// @Description  Sets the privacy level shown on the send screen. The level does not affect the scores.
// @Tags         privacy
// @Accept       json
// @Produce      json
// @Param        request  body      model.LevelRequest  true  "Privacy level"
// @Success      200      {object}  model.PrivacyResponse
// @Router       /privacy/level [put]
func (h *PrivacyHandler) SetLevel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed. Should be PUT", http.StatusMethodNotAllowed)
		return
	}

	var req model.LevelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.engine.SetLevel(req.Level); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, h.response())
}

func (h *PrivacyHandler) response() model.PrivacyResponse {
	return model.PrivacyResponse{
		Settings: h.engine.Settings(),
		Scores:   h.engine.Scores(),
		Level:    h.engine.Level(),
	}
}
