package trend

import (
	"math"
	"sort"
	"time"
)

// 状态等级
const (
	LevelNoData  = "데이터없음"
	LevelNormal  = "✅ 양호"
	LevelCaution = "⚠️ 주의"
	LevelWarning = "❗ 경고"
)

// DayCount 某一天的文章数
type DayCount struct {
	Day   time.Time
	Count int
}

// Detection 动态阈值检测结果
type Detection struct {
	Anomalies   []time.Time // 超过阈值的日期
	Threshold   *float64    // 今天的阈值，今天没有数据时为 nil
	Recent      []DayCount  // 最近窗口内按日期排序的每日计数
	K           float64     // 标准差倍数
	Attention   float64     // 警告阈值相对 Threshold 的倍数
	RecentRatio float64     // 最近窗口内的记录占比
}

// DailyCounts 按天聚合，按日期升序返回
func DailyCounts(days []time.Time) []DayCount {
	counts := make(map[time.Time]int)
	for _, d := range days {
		counts[day(d)]++
	}
	out := make([]DayCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DayCount{Day: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// sensitivity 最近数据占比越高，阈值越敏感
func sensitivity(ratio float64) (k, attention float64) {
	switch {
	case ratio > 0.8:
		return 1.0, 1.2
	case ratio > 0.5:
		return 1.2, 1.25
	case ratio > 0.2:
		return 1.5, 1.3
	default:
		return 2.0, 1.5
	}
}

// DetectAnomalies 以最新日期为终点取 recentDays 天，用 window 行滑动均值加 k 倍样本标准差作为阈值
func DetectAnomalies(days []time.Time, today time.Time, recentDays, window int) Detection {
	all := DailyCounts(days)
	if len(all) == 0 {
		return Detection{}
	}

	latest := all[len(all)-1].Day
	cutoff := latest.AddDate(0, 0, -(recentDays - 1))

	var recent []DayCount
	recentCount := 0
	for _, dc := range all {
		if !dc.Day.Before(cutoff) {
			recent = append(recent, dc)
			recentCount += dc.Count
		}
	}

	ratio := float64(recentCount) / float64(len(days))
	k, attention := sensitivity(ratio)

	det := Detection{
		Recent:      recent,
		K:           k,
		Attention:   attention,
		RecentRatio: ratio,
	}

	today = day(today)
	for i, dc := range recent {
		lo := max(0, i-window+1)
		mean, std := meanStd(recent[lo : i+1])
		threshold := mean + k*std

		if float64(dc.Count) > threshold {
			det.Anomalies = append(det.Anomalies, dc.Day)
		}
		if dc.Day.Equal(today) {
			det.Threshold = &threshold
		}
	}
	return det
}

// meanStd 均值与样本标准差，只有一个样本时标准差为 0
func meanStd(xs []DayCount) (float64, float64) {
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		sum += float64(x.Count)
	}
	mean := sum / n
	if len(xs) < 2 {
		return mean, 0
	}
	var sq float64
	for _, x := range xs {
		d := float64(x.Count) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / (n - 1))
}

// DetectDrop 今天的数量低于其它天峰值的 dropRatio 时报警，至少需要 3 天且包含今天
func DetectDrop(recent []DayCount, today time.Time, dropRatio float64) (ratio float64, alert bool) {
	if len(recent) < 3 {
		return 0, false
	}

	today = day(today)
	todayCount, found, peak := 0, false, 0
	for _, dc := range recent {
		if dc.Day.Equal(today) {
			todayCount, found = dc.Count, true
			continue
		}
		peak = max(peak, dc.Count)
	}
	if !found || peak == 0 {
		return 0, false
	}

	ratio = float64(todayCount) / float64(peak)
	return ratio, ratio < dropRatio
}

// Level 根据今天的数量和阈值给出状态
func Level(todayCount int, threshold *float64, attention float64) string {
	if threshold == nil {
		return LevelNoData
	}
	n := float64(todayCount)
	switch {
	case n <= *threshold:
		return LevelNormal
	case n <= *threshold*attention:
		return LevelCaution
	default:
		return LevelWarning
	}
}
