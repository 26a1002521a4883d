// Package model 定义排班考勤引擎的核心数据模型
package model

import "time"

// DateLayout 日期格式 YYYY-MM-DD
const DateLayout = "2006-01-02"

// TimeLayout 时间格式 HH:mm
const TimeLayout = "15:04"

// ParseDate 解析 YYYY-MM-DD 日期，失败时返回零值
func ParseDate(date string) time.Time {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// WeekStart 返回日期所在周的周一
func WeekStart(date string) string {
	t := ParseDate(date)
	if t.IsZero() {
		return date
	}
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

// WeekDates 返回从周起始日开始的连续7天
func WeekDates(start string) []string {
	t := ParseDate(start)
	if t.IsZero() {
		return nil
	}
	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = t.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// PrevDate 返回前一天的日期
func PrevDate(date string) string {
	t := ParseDate(date)
	if t.IsZero() {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// NextDate 返回后一天的日期
func NextDate(date string) string {
	t := ParseDate(date)
	if t.IsZero() {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

// IsWeekend 判断日期是否是周末
func IsWeekend(date string) bool {
	t := ParseDate(date)
	if t.IsZero() {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// 中文星期名
var weekdayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// FormatWeekday 返回日期的中文星期名
func FormatWeekday(date string) string {
	t := ParseDate(date)
	if t.IsZero() {
		return ""
	}
	return weekdayNames[int(t.Weekday())]
}
