package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// FaceHandler 人脸注册模块 HTTP 处理器
type FaceHandler struct {
	faceSvc service.FaceService
}

// NewFaceHandler 创建 FaceHandler
func NewFaceHandler(faceSvc service.FaceService) *FaceHandler {
	return &FaceHandler{faceSvc: faceSvc}
}

// Enroll 注册人脸参考向量
// POST /api/v1/face/enroll
func (h *FaceHandler) Enroll(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EnrollFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.faceSvc.Enroll(c.Request.Context(), userID, req.FaceVector); err != nil {
		switch {
		case errors.Is(err, service.ErrFaceAlreadyEnrolled):
			response.Conflict(c, 13004, "人脸已注册")
		case errors.Is(err, service.ErrInvalidFaceVector):
			response.BadRequest(c, 10001, "人脸特征向量维度不合法")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 11004, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, nil)
}

// Status 查询人脸注册状态
// GET /api/v1/face/status
func (h *FaceHandler) Status(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.faceSvc.Status(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11004, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
