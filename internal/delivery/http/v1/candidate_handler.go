package v1

import (
	"net/http"
	"strconv"

	"candidate-service/internal/delivery/http/response"
	"candidate-service/internal/domain"
	"candidate-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.POST("", handler.Register)
		candidates.GET("", handler.List)
		candidates.GET("/:id", handler.GetByID)
		candidates.PATCH("/:id", handler.Update)
		candidates.DELETE("/:id", handler.Delete)

		candidates.GET("/telegram/:telegram_id", handler.GetByTelegramID)
		candidates.PATCH("/telegram/:telegram_id", handler.UpdateByTelegramID)
		candidates.DELETE("/telegram/:telegram_id", handler.DeleteByTelegramID)
	}
}

// Register godoc
// @Summary      Register a candidate
// @Description  Create a candidate profile with its skills, projects and experiences
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CandidateCreate  true  "Candidate profile"
// @Success      201      {object}  response.Response{data=domain.Candidate}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /candidates [post]
func (h *CandidateHandler) Register(c *gin.Context) {
	var req domain.CandidateCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	candidate, err := h.candidateUC.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate registered", candidate)
}

// List godoc
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Candidate}
// @Router       /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	candidates, err := h.candidateUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates", candidates)
}

// GetByID godoc
// @Summary      Get candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) GetByID(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate", candidate)
}

// GetByTelegramID godoc
// @Summary      Get candidate by Telegram ID
// @Tags         candidates
// @Produce      json
// @Param        telegram_id  path      int  true  "Telegram user ID"
// @Success      200          {object}  response.Response{data=domain.Candidate}
// @Failure      400          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /candidates/telegram/{telegram_id} [get]
func (h *CandidateHandler) GetByTelegramID(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetByTelegramID(c.Request.Context(), telegramID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate", candidate)
}

// Update godoc
// @Summary      Update candidate
// @Description  Partial update. Omitted fields are kept. A supplied skills, projects or experiences array replaces the stored one; an empty array clears it.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Candidate ID"
// @Param        request  body      domain.CandidateUpdate  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.Candidate}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /candidates/{id} [patch]
func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	var req domain.CandidateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	candidate, err := h.candidateUC.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// UpdateByTelegramID godoc
// @Summary      Update candidate by Telegram ID
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        telegram_id  path      int                     true  "Telegram user ID"
// @Param        request      body      domain.CandidateUpdate  true  "Fields to change"
// @Success      200          {object}  response.Response{data=domain.Candidate}
// @Failure      400          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /candidates/telegram/{telegram_id} [patch]
func (h *CandidateHandler) UpdateByTelegramID(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	var req domain.CandidateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	candidate, err := h.candidateUC.UpdateByTelegramID(c.Request.Context(), telegramID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// Delete godoc
// @Summary      Delete candidate
// @Description  Removes the candidate with every owned record
// @Tags         candidates
// @Param        id   path  string  true  "Candidate ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	if err := h.candidateUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteByTelegramID godoc
// @Summary      Delete candidate by Telegram ID
// @Tags         candidates
// @Param        telegram_id  path  int  true  "Telegram user ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /candidates/telegram/{telegram_id} [delete]
func (h *CandidateHandler) DeleteByTelegramID(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	if err := h.candidateUC.DeleteByTelegramID(c.Request.Context(), telegramID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func candidateIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Invalid candidate ID"))
		return uuid.Nil, false
	}
	return id, true
}

func telegramIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid Telegram ID"))
		return 0, false
	}
	return id, true
}
