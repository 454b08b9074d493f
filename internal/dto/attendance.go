package dto

// ── 考勤模块 DTO ──

// PunchRequest 打卡请求（上班 / 下班共用）
// 人脸特征向量由客户端的特征提取模型产出，服务端不接收原始图像
type PunchRequest struct {
	FaceVector []float64 `json:"face_vector" binding:"required,len=128"`
	Reason     string    `json:"reason"      binding:"omitempty,max=500"`
}

// PunchErrorData 打卡失败时的结构化诊断信息
// kind 取值: origin_denied | face_not_registered | face_mismatch |
//            face_verify_locked | reason_required | already_punched_in |
//            already_completed | not_punched_in | user_inactive
type PunchErrorData struct {
	Kind              string `json:"kind"`
	CurrentIP         string `json:"current_ip,omitempty"`
	RequiresReason    bool   `json:"requires_reason,omitempty"`
	ReasonKind        string `json:"reason_kind,omitempty"` // late | early
	FaceNotRegistered bool   `json:"face_not_registered,omitempty"`
}

// AttendanceRecordResponse 考勤记录响应
type AttendanceRecordResponse struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	UserName            string  `json:"user_name,omitempty"`
	PunchDate           string  `json:"punch_date"` // YYYY-MM-DD
	PunchInTime         string  `json:"punch_in_time"`
	PunchOutTime        *string `json:"punch_out_time,omitempty"`
	PunchInLateReason   *string `json:"punch_in_late_reason,omitempty"`
	PunchOutEarlyReason *string `json:"punch_out_early_reason,omitempty"`
}

// PunchResponse 打卡成功响应
type PunchResponse struct {
	PunchTime string                   `json:"punch_time"`
	Late      bool                     `json:"late,omitempty"`
	Early     bool                     `json:"early,omitempty"`
	Record    AttendanceRecordResponse `json:"record"`
}

// 当日打卡状态
const (
	PunchStateNotPunchedIn = "not_punched_in"
	PunchStatePunchedIn    = "punched_in"
	PunchStateCompleted    = "completed"
)

// TodayResponse 当日打卡状态响应
type TodayResponse struct {
	State  string                    `json:"state"`
	Record *AttendanceRecordResponse `json:"record,omitempty"`
}

// HistoryQuery 个人考勤历史查询参数
type HistoryQuery struct {
	From     string `form:"from"      binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to"        binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdminRecordsQuery 管理端按日期查询参数
type AdminRecordsQuery struct {
	Date     string `form:"date"      binding:"required,datetime=2006-01-02"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
