package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// AttendanceHandler 考勤打卡模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// PunchIn 上班打卡
// POST /api/v1/attendance/punch-in
func (h *AttendanceHandler) PunchIn(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.PunchIn(c.Request.Context(), userID, c.ClientIP(), &req)
	if err != nil {
		h.handlePunchError(c, err)
		return
	}

	response.Created(c, result)
}

// PunchOut 下班打卡
// POST /api/v1/attendance/punch-out
func (h *AttendanceHandler) PunchOut(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.PunchOut(c.Request.Context(), userID, c.ClientIP(), &req)
	if err != nil {
		h.handlePunchError(c, err)
		return
	}

	response.OK(c, result)
}

// Today 查询当日打卡状态
// GET /api/v1/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.Today(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// History 查询个人考勤历史
// GET /api/v1/attendance/records
func (h *AttendanceHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.attendanceSvc.History(c.Request.Context(), userID, &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	response.OKPage(c, list, total, page, pageSize)
}

// ListByDate 管理端按日期查询全员考勤
// GET /api/v1/attendance/admin/records
func (h *AttendanceHandler) ListByDate(c *gin.Context) {
	var q dto.AdminRecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.attendanceSvc.ListByDate(c.Request.Context(), &q)
	if err != nil {
		response.InternalError(c)
		return
	}

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	response.OKPage(c, list, total, page, pageSize)
}

// handlePunchError 统一处理打卡业务错误
// data 中的 kind 字段驱动客户端的补救流程（补录原因 / 注册人脸 / 换网络重试）
func (h *AttendanceHandler) handlePunchError(c *gin.Context, err error) {
	var denied *service.OriginDeniedError
	var reasonRequired *service.ReasonRequiredError

	switch {
	case errors.As(err, &denied):
		response.ErrorWithData(c, http.StatusForbidden, 12001, "来源 IP 不在考勤白名单内",
			dto.PunchErrorData{Kind: "origin_denied", CurrentIP: denied.CurrentIP})

	case errors.As(err, &reasonRequired):
		kind := "迟到"
		if reasonRequired.Kind == service.ReasonKindEarly {
			kind = "早退"
		}
		response.ErrorWithData(c, http.StatusUnprocessableEntity, 12002, kind+"需填写原因",
			dto.PunchErrorData{Kind: "reason_required", RequiresReason: true, ReasonKind: reasonRequired.Kind})

	case errors.Is(err, service.ErrAlreadyPunchedIn):
		response.ErrorWithData(c, http.StatusConflict, 12003, "今天已打过上班卡",
			dto.PunchErrorData{Kind: "already_punched_in"})

	case errors.Is(err, service.ErrAlreadyCompleted):
		response.ErrorWithData(c, http.StatusConflict, 12004, "今天的考勤已完成",
			dto.PunchErrorData{Kind: "already_completed"})

	case errors.Is(err, service.ErrNotPunchedIn):
		response.ErrorWithData(c, http.StatusConflict, 12005, "今天还没有打上班卡",
			dto.PunchErrorData{Kind: "not_punched_in"})

	case errors.Is(err, service.ErrUserInactive):
		response.ErrorWithData(c, http.StatusForbidden, 11002, "账号已停用，无法打卡",
			dto.PunchErrorData{Kind: "user_inactive"})

	case errors.Is(err, service.ErrFaceNotRegistered):
		response.ErrorWithData(c, http.StatusForbidden, 13001, "尚未注册人脸",
			dto.PunchErrorData{Kind: "face_not_registered", FaceNotRegistered: true})

	case errors.Is(err, service.ErrFaceMismatch):
		response.ErrorWithData(c, http.StatusForbidden, 13002, "人脸验证未通过",
			dto.PunchErrorData{Kind: "face_mismatch"})

	case errors.Is(err, service.ErrFaceVerifyLocked):
		response.ErrorWithData(c, http.StatusTooManyRequests, 13003, "连续验证失败次数过多，请稍后再试",
			dto.PunchErrorData{Kind: "face_verify_locked"})

	case errors.Is(err, service.ErrInvalidFaceVector):
		response.BadRequest(c, 10001, "人脸特征向量维度不合法")

	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, "用户不存在")

	case errors.Is(err, service.ErrAttendanceConfigMissing):
		response.Error(c, http.StatusInternalServerError, 15001, "考勤配置未初始化")

	default:
		response.InternalError(c)
	}
}
