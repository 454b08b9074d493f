package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"staffhub/backend/internal/model"
	"staffhub/backend/internal/repository"
)

// 内存版 Repository 实现，复刻数据库侧的并发仲裁语义：
// 唯一约束返回 gorm.ErrDuplicatedKey，条件更新返回是否赢得写入

// ── UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) SetFaceVector(_ context.Context, userID string, vector model.FaceVector) error {
	u, ok := m.users[userID]
	if !ok || len(u.FaceVector) > 0 {
		// WHERE face_vector IS NULL 未命中
		return gorm.ErrDuplicatedKey
	}
	u.FaceVector = vector
	return nil
}

// ── AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord // id → record
	seq     int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func dateKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	key := dateKey(record.UserID, record.PunchDate)
	for _, r := range m.records {
		if dateKey(r.UserID, r.PunchDate) == key {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	record.AttendanceRecordID = fmt.Sprintf("att-%d", m.seq)
	cp := *record
	m.records[record.AttendanceRecordID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*model.AttendanceRecord, error) {
	key := dateKey(userID, date)
	for _, r := range m.records {
		if dateKey(r.UserID, r.PunchDate) == key {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) CompletePunchOut(_ context.Context, recordID string, outTime time.Time, earlyReason *string) (bool, error) {
	r, ok := m.records[recordID]
	if !ok || r.PunchOutTime != nil {
		return false, nil
	}
	t := outTime
	r.PunchOutTime = &t
	r.PunchOutEarlyReason = earlyReason
	return true, nil
}

func (m *mockAttendanceRepo) ListByUser(_ context.Context, userID string, from, to time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var all []model.AttendanceRecord
	for _, r := range m.records {
		if r.UserID == userID && !r.PunchDate.Before(from) && !r.PunchDate.After(to) {
			all = append(all, *r)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var all []model.AttendanceRecord
	for _, r := range m.records {
		if r.PunchDate.Format("2006-01-02") == date.Format("2006-01-02") {
			all = append(all, *r)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── AttendanceConfigRepository ──

type mockAttendanceConfigRepo struct {
	cfg *model.AttendanceConfig
}

func (m *mockAttendanceConfigRepo) Get(_ context.Context) (*model.AttendanceConfig, error) {
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockAttendanceConfigRepo) Update(_ context.Context, cfg *model.AttendanceConfig) error {
	cp := *cfg
	m.cfg = &cp
	return nil
}

// ── AllowedIPRepository ──

type mockAllowedIPRepo struct {
	entries map[string]*model.AllowedIP
	seq     int
}

func newMockAllowedIPRepo() *mockAllowedIPRepo {
	return &mockAllowedIPRepo{entries: make(map[string]*model.AllowedIP)}
}

func (m *mockAllowedIPRepo) ListActive(_ context.Context) ([]model.AllowedIP, error) {
	var out []model.AllowedIP
	for _, e := range m.entries {
		if e.IsActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockAllowedIPRepo) List(_ context.Context) ([]model.AllowedIP, error) {
	var out []model.AllowedIP
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockAllowedIPRepo) GetByID(_ context.Context, id string) (*model.AllowedIP, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockAllowedIPRepo) Create(_ context.Context, entry *model.AllowedIP) error {
	for _, e := range m.entries {
		if e.IPAddress == entry.IPAddress {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	entry.AllowedIPID = fmt.Sprintf("ip-%d", m.seq)
	cp := *entry
	m.entries[entry.AllowedIPID] = &cp
	return nil
}

func (m *mockAllowedIPRepo) Update(_ context.Context, entry *model.AllowedIP) error {
	for id, e := range m.entries {
		if e.IPAddress == entry.IPAddress && id != entry.AllowedIPID {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *entry
	m.entries[entry.AllowedIPID] = &cp
	return nil
}

func (m *mockAllowedIPRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// ── LeaveConfigRepository ──

type mockLeaveConfigRepo struct {
	configs map[string]*model.LeaveConfig // leave_type → config
}

func newMockLeaveConfigRepo() *mockLeaveConfigRepo {
	return &mockLeaveConfigRepo{configs: make(map[string]*model.LeaveConfig)}
}

func (m *mockLeaveConfigRepo) List(_ context.Context) ([]model.LeaveConfig, error) {
	var out []model.LeaveConfig
	for _, c := range m.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockLeaveConfigRepo) GetByType(_ context.Context, leaveType string) (*model.LeaveConfig, error) {
	c, ok := m.configs[leaveType]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockLeaveConfigRepo) Upsert(_ context.Context, cfg *model.LeaveConfig) error {
	cp := *cfg
	m.configs[cfg.LeaveType] = &cp
	return nil
}

func (m *mockLeaveConfigRepo) DeleteByType(_ context.Context, leaveType string) error {
	delete(m.configs, leaveType)
	return nil
}

// ── LeaveRequestRepository ──

type mockLeaveRequestRepo struct {
	requests map[string]*model.LeaveRequest
	seq      int
}

func newMockLeaveRequestRepo() *mockLeaveRequestRepo {
	return &mockLeaveRequestRepo{requests: make(map[string]*model.LeaveRequest)}
}

func (m *mockLeaveRequestRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	m.seq++
	req.LeaveRequestID = fmt.Sprintf("leave-%d", m.seq)
	req.CreatedAt = time.Now()
	cp := *req
	m.requests[req.LeaveRequestID] = &cp
	return nil
}

func (m *mockLeaveRequestRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockLeaveRequestRepo) Review(_ context.Context, id, status, reviewerID string, reviewedAt time.Time, rejectionReason *string) (bool, error) {
	r, ok := m.requests[id]
	if !ok || r.Status != model.LeaveStatusPending {
		return false, nil
	}
	r.Status = status
	r.ReviewedBy = &reviewerID
	t := reviewedAt
	r.ReviewedAt = &t
	r.RejectionReason = rejectionReason
	return true, nil
}

func (m *mockLeaveRequestRepo) Cancel(_ context.Context, id, userID string) (bool, error) {
	r, ok := m.requests[id]
	if !ok || r.UserID != userID || r.Status != model.LeaveStatusPending {
		return false, nil
	}
	r.Status = model.LeaveStatusCancelled
	return true, nil
}

func (m *mockLeaveRequestRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var all []model.LeaveRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			all = append(all, *r)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockLeaveRequestRepo) List(_ context.Context, status string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var all []model.LeaveRequest
	for _, r := range m.requests {
		if status == "" || r.Status == status {
			all = append(all, *r)
		}
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockLeaveRequestRepo) ListApprovedInRange(_ context.Context, userID, leaveType string, from, to time.Time) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, r := range m.requests {
		if r.UserID == userID && r.LeaveType == leaveType && r.Status == model.LeaveStatusApproved &&
			!r.StartDate.After(to) && !r.EndDate.Before(from) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// ── 组装辅助 ──

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// mocks 保留各实现的指针，便于测试用例直接播种数据
type mocks struct {
	user             *mockUserRepo
	attendance       *mockAttendanceRepo
	attendanceConfig *mockAttendanceConfigRepo
	allowedIP        *mockAllowedIPRepo
	leaveConfig      *mockLeaveConfigRepo
	leaveRequest     *mockLeaveRequestRepo
}

func newMocks() (*repository.Repository, *mocks) {
	m := &mocks{
		user:             newMockUserRepo(),
		attendance:       newMockAttendanceRepo(),
		attendanceConfig: &mockAttendanceConfigRepo{},
		allowedIP:        newMockAllowedIPRepo(),
		leaveConfig:      newMockLeaveConfigRepo(),
		leaveRequest:     newMockLeaveRequestRepo(),
	}
	repo := &repository.Repository{
		User:             m.user,
		Attendance:       m.attendance,
		AttendanceConfig: m.attendanceConfig,
		AllowedIP:        m.allowedIP,
		LeaveConfig:      m.leaveConfig,
		LeaveRequest:     m.leaveRequest,
	}
	return repo, m
}

// defaultAttendanceConfig 09:00-18:00，迟到阈值 15 分钟，早退阈值 10 分钟
func defaultAttendanceConfig() *model.AttendanceConfig {
	return &model.AttendanceConfig{
		Singleton:                  true,
		StartTime:                  "09:00",
		EndTime:                    "18:00",
		LateThresholdMinutes:       15,
		EarlyLeaveThresholdMinutes: 10,
		RequireReasonOnLate:        true,
		RequireReasonOnEarly:       true,
	}
}

// sampleVector 生成固定维度的测试向量，所有分量等于 base
func sampleVector(base float64) []float64 {
	vec := make([]float64, model.FaceVectorDim)
	for i := range vec {
		vec[i] = base
	}
	return vec
}
