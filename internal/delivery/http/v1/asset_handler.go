package v1

import (
	"net/http"

	"candidate-service/internal/delivery/http/response"
	"candidate-service/internal/domain"
	"candidate-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetUC domain.AssetUsecase
}

// NewAssetHandler mounts the resume and avatar slots. POST and PUT behave the
// same: the slot holds at most one file and a new one evicts the old.
func NewAssetHandler(r *gin.RouterGroup, assetUC domain.AssetUsecase) {
	handler := &AssetHandler{assetUC: assetUC}

	candidates := r.Group("/candidates/:id")
	{
		candidates.POST("/resume", handler.replace(domain.AssetResume))
		candidates.PUT("/resume", handler.replace(domain.AssetResume))
		candidates.DELETE("/resume", handler.remove(domain.AssetResume))
		candidates.GET("/resume/download-link", handler.ResumeDownloadLink)

		candidates.POST("/avatar", handler.replace(domain.AssetAvatar))
		candidates.PUT("/avatar", handler.replace(domain.AssetAvatar))
		candidates.DELETE("/avatar", handler.remove(domain.AssetAvatar))
	}
}

// ReplaceAsset godoc
// @Summary      Attach or replace resume or avatar
// @Description  POST and PUT are equivalent. A previously attached file is announced for cleanup.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Candidate ID"
// @Param        request  body      domain.AssetInput  true  "Stored file reference"
// @Success      200      {object}  response.Response{data=domain.Asset}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /candidates/{id}/resume [put]
// @Router       /candidates/{id}/resume [post]
// @Router       /candidates/{id}/avatar [put]
// @Router       /candidates/{id}/avatar [post]
func (h *AssetHandler) replace(kind domain.AssetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := candidateIDParam(c)
		if !ok {
			return
		}

		var req domain.AssetInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
			return
		}

		asset, err := h.assetUC.Replace(c.Request.Context(), kind, id, &req)
		if err != nil {
			c.Error(err)
			return
		}

		response.Success(c, http.StatusOK, "Candidate "+string(kind)+" updated", asset)
	}
}

// RemoveAsset godoc
// @Summary      Remove resume or avatar
// @Tags         assets
// @Param        id    path  string  true  "Candidate ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/resume [delete]
// @Router       /candidates/{id}/avatar [delete]
func (h *AssetHandler) remove(kind domain.AssetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := candidateIDParam(c)
		if !ok {
			return
		}

		if err := h.assetUC.Remove(c.Request.Context(), kind, id); err != nil {
			c.Error(err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// ResumeDownloadLink godoc
// @Summary      Resolve resume download link
// @Description  Asks the file service for a retrievable URL of the stored resume
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.DownloadLink}
// @Failure      404  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /candidates/{id}/resume/download-link [get]
func (h *AssetHandler) ResumeDownloadLink(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	link, err := h.assetUC.ResolveResumeDownloadURL(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume download link", link)
}
