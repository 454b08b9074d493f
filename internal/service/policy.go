package service

import (
	"fmt"
	"strings"
	"time"

	"staffhub/backend/internal/model"
)

// 迟到/早退原因的最小长度
const minReasonLen = 10

// clockOn 将 "HH:MM" 或 "HH:MM:SS" 形式的班次时刻落到指定日期上
func clockOn(day time.Time, clock string) (time.Time, error) {
	layout := "15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的班次时刻 %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, day.Location()), nil
}

// reasonProvided 原因是否满足最小长度要求
func reasonProvided(reason string) bool {
	return len(strings.TrimSpace(reason)) >= minReasonLen
}

// evaluatePunchIn 上班打卡策略评估（纯函数，无副作用）
// 迟到判定：now 晚于 startTime + lateThreshold；
// 迟到且配置要求原因时，原因不足则返回 ReasonRequiredError，调用方不得落库
func evaluatePunchIn(now time.Time, cfg *model.AttendanceConfig, reason string) (bool, error) {
	start, err := clockOn(now, cfg.StartTime)
	if err != nil {
		return false, err
	}

	deadline := start.Add(time.Duration(cfg.LateThresholdMinutes) * time.Minute)
	late := now.After(deadline)

	if late && cfg.RequireReasonOnLate && !reasonProvided(reason) {
		return true, &ReasonRequiredError{Kind: ReasonKindLate}
	}
	return late, nil
}

// evaluatePunchOut 下班打卡策略评估（纯函数，无副作用）
// 早退判定：now 早于 endTime - earlyLeaveThreshold
func evaluatePunchOut(now time.Time, cfg *model.AttendanceConfig, reason string) (bool, error) {
	end, err := clockOn(now, cfg.EndTime)
	if err != nil {
		return false, err
	}

	threshold := end.Add(-time.Duration(cfg.EarlyLeaveThresholdMinutes) * time.Minute)
	early := now.Before(threshold)

	if early && cfg.RequireReasonOnEarly && !reasonProvided(reason) {
		return true, &ReasonRequiredError{Kind: ReasonKindEarly}
	}
	return early, nil
}
