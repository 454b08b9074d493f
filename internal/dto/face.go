package dto

// ── 人脸注册模块 DTO ──

// EnrollFaceRequest 注册人脸特征向量请求
// 注册是独立的、需要客户端确认界面的显式步骤，不会在打卡请求里隐式发生
type EnrollFaceRequest struct {
	FaceVector []float64 `json:"face_vector" binding:"required,len=128"`
}

// FaceStatusResponse 当前用户人脸注册状态
type FaceStatusResponse struct {
	Enrolled bool `json:"enrolled"`
}
