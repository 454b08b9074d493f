package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub/backend/internal/dto"
	"staffhub/backend/internal/model"
	"staffhub/backend/internal/service"
	"staffhub/backend/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// Create 创建请假单
// POST /api/v1/leaves
func (h *LeaveHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMine 查询个人请假单
// GET /api/v1/leaves/my
func (h *LeaveHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.LeaveListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.leaveSvc.ListMine(c.Request.Context(), userID, q.Page, q.PageSize)
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

// List 管理端查询请假单列表
// GET /api/v1/leaves
func (h *LeaveHandler) List(c *gin.Context) {
	var q dto.LeaveListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.leaveSvc.List(c.Request.Context(), &q)
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

// Balance 查询个人请假余额
// GET /api/v1/leaves/balance?as_of=2026-08-10
func (h *LeaveHandler) Balance(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	asOf := time.Now()
	if s := c.Query("as_of"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, asOf.Location())
		if err != nil {
			response.BadRequest(c, 10001, "as_of 日期格式无效")
			return
		}
		asOf = parsed
	}

	// 普通用户视图把负余额钳制为 0，管理员保留负值以观察超发
	clamp := role != model.RoleAdmin
	result, err := h.leaveSvc.Balance(c.Request.Context(), userID, asOf, clamp)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Approve 批准请假单
// PUT /api/v1/leaves/:id/approve
func (h *LeaveHandler) Approve(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Approve(c.Request.Context(), c.Param("id"), reviewerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// Reject 驳回请假单
// PUT /api/v1/leaves/:id/reject
func (h *LeaveHandler) Reject(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Reject(c.Request.Context(), c.Param("id"), reviewerID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// Cancel 撤销本人的请假单
// DELETE /api/v1/leaves/:id
func (h *LeaveHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.leaveSvc.Cancel(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleLeaveError 统一处理请假模块业务错误
func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 14001, "请假单不存在")
	case errors.Is(err, service.ErrLeaveNotPending):
		response.Conflict(c, 14002, "请假单已不在待审批状态")
	case errors.Is(err, service.ErrLeaveNotOwned):
		response.Forbidden(c, 14003, "只能操作自己的请假单")
	case errors.Is(err, service.ErrLeaveInvalidRange):
		response.BadRequest(c, 14004, "请假日期范围无效")
	case errors.Is(err, service.ErrLeaveHalfDayInvalid):
		response.BadRequest(c, 14005, "半天假必须是单日，且需指定上半天/下半天")
	case errors.Is(err, service.ErrLeaveBalanceExceeded):
		response.Conflict(c, 14006, "请假天数超出该类型剩余额度")
	default:
		response.InternalError(c)
	}
}
