package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// ConfigHandler 管理配置模块 HTTP 处理器
// 全部路由挂在 admin 角色门后
type ConfigHandler struct {
	configSvc service.ConfigService
}

// NewConfigHandler 创建 ConfigHandler
func NewConfigHandler(configSvc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configSvc: configSvc}
}

// ── 考勤配置 ──

// GetAttendanceConfig 获取考勤配置
// GET /api/v1/config/attendance
func (h *ConfigHandler) GetAttendanceConfig(c *gin.Context) {
	cfg, err := h.configSvc.GetAttendanceConfig(c.Request.Context())
	if err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.OK(c, cfg)
}

// UpdateAttendanceConfig 更新考勤配置（部分更新）
// PUT /api/v1/config/attendance
func (h *ConfigHandler) UpdateAttendanceConfig(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAttendanceConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.UpdateAttendanceConfig(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.OK(c, cfg)
}

// ── IP 白名单 ──

// ListAllowedIPs 列出白名单 IP
// GET /api/v1/config/allowed-ips
func (h *ConfigHandler) ListAllowedIPs(c *gin.Context) {
	list, err := h.configSvc.ListAllowedIPs(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// CreateAllowedIP 新增白名单 IP
// POST /api/v1/config/allowed-ips
func (h *ConfigHandler) CreateAllowedIP(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAllowedIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.configSvc.CreateAllowedIP(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.Created(c, entry)
}

// UpdateAllowedIP 更新白名单 IP
// PUT /api/v1/config/allowed-ips/:id
func (h *ConfigHandler) UpdateAllowedIP(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAllowedIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.configSvc.UpdateAllowedIP(c.Request.Context(), operatorID, c.Param("id"), &req)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteAllowedIP 删除白名单 IP
// DELETE /api/v1/config/allowed-ips/:id
func (h *ConfigHandler) DeleteAllowedIP(c *gin.Context) {
	if err := h.configSvc.DeleteAllowedIP(c.Request.Context(), c.Param("id")); err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 请假额度 ──

// ListLeaveConfigs 列出请假额度配置
// GET /api/v1/config/leave-types
func (h *ConfigHandler) ListLeaveConfigs(c *gin.Context) {
	list, err := h.configSvc.ListLeaveConfigs(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// UpsertLeaveConfig 设置某请假类型的额度
// PUT /api/v1/config/leave-types
func (h *ConfigHandler) UpsertLeaveConfig(c *gin.Context) {
	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertLeaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.UpsertLeaveConfig(c.Request.Context(), operatorID, &req)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.OK(c, cfg)
}

// DeleteLeaveConfig 删除某请假类型的额度（恢复为不限额）
// DELETE /api/v1/config/leave-types/:type
func (h *ConfigHandler) DeleteLeaveConfig(c *gin.Context) {
	if err := h.configSvc.DeleteLeaveConfig(c.Request.Context(), c.Param("type")); err != nil {
		h.handleConfigError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleConfigError 统一处理配置模块业务错误
func (h *ConfigHandler) handleConfigError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceConfigMissing):
		response.Error(c, http.StatusInternalServerError, 15001, "考勤配置未初始化")
	case errors.Is(err, service.ErrAttendanceConfigInvalid):
		response.BadRequest(c, 15002, "上班时间必须早于下班时间")
	case errors.Is(err, service.ErrAllowedIPNotFound):
		response.NotFound(c, 15003, "白名单条目不存在")
	case errors.Is(err, service.ErrAllowedIPDuplicated):
		response.Conflict(c, 15004, "该 IP 已在白名单中")
	case errors.Is(err, service.ErrLeaveConfigNotFound):
		response.NotFound(c, 15005, "该请假类型未配置额度")
	default:
		response.InternalError(c)
	}
}
