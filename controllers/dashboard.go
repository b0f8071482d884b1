package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	dbpkg "directdm/db"
	"directdm/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ------------------------------
// Dashboard - read-only views over the message log, rollups and dead letters.
// Auth lives in front of these routes and is outside this service.
// ------------------------------

func queryConfigID(c *gin.Context) (int64, bool) {
	v := strings.TrimSpace(c.Query("config_id"))
	if v == "" {
		RespondError(c, "config_id is required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, "config_id is invalid", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context) int {
	limit := defaultPageSize
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit
}

// GET /api/messages?config_id=&limit=&offset=
// Recent processed messages, newest first.
func GetMessages(c *gin.Context) {
	configID, ok := queryConfigID(c)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	limit := queryLimit(c)
	offset := 0
	if v := strings.TrimSpace(c.Query("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	var msgs []models.ProcessedMessage
	if err := db.
		Where("tenant_config_id = ?", configID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"messages": msgs,
		"limit":    limit,
		"offset":   offset,
	})
}

// GET /api/analytics?config_id=&from=YYYY-MM-DD&to=YYYY-MM-DD
// Daily rollup series for a date range (default: last 7 days), with missing
// days filled as zero rows, plus range totals.
func GetAnalytics(c *gin.Context) {
	configID, ok := queryConfigID(c)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	var rows []models.DailyAnalytics
	if err := db.
		Where("tenant_config_id = ? AND date >= ? AND date <= ?",
			configID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date asc").
		Find(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	series := fillDailySeries(configID, from, to, rows)

	var totals models.DailyAnalytics
	for _, r := range series {
		totals.DmReceived += r.DmReceived
		totals.DmAutoReplied += r.DmAutoReplied
		totals.CommentsReceived += r.CommentsReceived
		totals.CommentsAutoReplied += r.CommentsAutoReplied
		totals.AiApiCalls += r.AiApiCalls
		totals.AiApiCostUsd += r.AiApiCostUsd
	}

	RespondSuccess(c, gin.H{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"series": series,
		"totals": gin.H{
			"dm_received":           totals.DmReceived,
			"dm_auto_replied":       totals.DmAutoReplied,
			"comments_received":     totals.CommentsReceived,
			"comments_auto_replied": totals.CommentsAutoReplied,
			"ai_api_calls":          totals.AiApiCalls,
			"ai_api_cost_usd":       totals.AiApiCostUsd,
		},
	})
}

// GET /api/failures?config_id=&limit=
// Dead-letter log, newest first.
func GetFailures(c *gin.Context) {
	configID, ok := queryConfigID(c)
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	var recs []models.FailureRecord
	if err := db.
		Where("tenant_config_id = ?", configID).
		Order("created_at desc, id desc").
		Limit(queryLimit(c)).
		Find(&recs).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"failures": recs})
}

// parseDateRange reads from/to query params, defaulting to the last 7 days.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -6)
	to := now

	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			RespondError(c, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			RespondError(c, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	if to.Before(from) {
		RespondError(c, "to must not be before from", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// fillDailySeries pads the range so the dashboard chart gets a point for
// every day, including days with no events.
func fillDailySeries(configID int64, from, to time.Time, rows []models.DailyAnalytics) []models.DailyAnalytics {
	byDate := make(map[string]models.DailyAnalytics, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}

	var series []models.DailyAnalytics
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if r, ok := byDate[key]; ok {
			series = append(series, r)
			continue
		}
		series = append(series, models.DailyAnalytics{
			TenantConfigID: configID,
			Date:           key,
		})
	}
	return series
}
