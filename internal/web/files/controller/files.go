// Package controller exposes the upload authorization HTTP handlers.
package controller

import (
	"context"
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/filedrop/internal/web/files/dto"
	"github.com/Laisky/filedrop/internal/web/files/service"
)

var Instance *Type

func Initialize(ctx context.Context) {
	service.Initialize(ctx)

	Instance = New(service.Instance)
}

type Type struct {
	svc *service.Type
}

func New(svc *service.Type) *Type {
	return &Type{svc: svc}
}

// AuthorizeUpload handles POST /upload-authorizations.
func (c *Type) AuthorizeUpload(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("authorize_upload")

	req := new(dto.AuthorizeUploadRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Debug("bind request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest,
			dto.FailureResponse{Failure: service.ErrMissingFields.Error()})
		return
	}

	ret, err := c.svc.AuthorizeUpload(ctx, req)
	if err != nil {
		if service.IsClientError(err) {
			ctx.JSON(http.StatusBadRequest,
				dto.FailureResponse{Failure: err.Error()})
			return
		}

		logger.Error("authorize upload", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.FailureResponse{Failure: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: ret})
}

// ListUploaded handles GET /upload-authorizations.
func (c *Type) ListUploaded(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("list_uploaded")

	files, err := c.svc.ListUploaded(ctx)
	if err != nil {
		logger.Error("list uploaded files", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.FailureResponse{Failure: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK,
		dto.SuccessResponse{Success: dto.FileListResult{Files: files}})
}
