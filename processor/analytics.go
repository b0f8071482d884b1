package processor

import (
	"time"

	"directdm/models"

	"github.com/jinzhu/gorm"
)

// today is the rollup's business day, UTC.
func (p *Processor) today() string {
	return p.now().UTC().Format("2006-01-02")
}

// RecordAnalytics bumps the daily rollup for one handled event. Increments
// use SQL expressions so two concurrent events for the same tenant can't
// lose an increment; the insert path covers the first event of the day, and
// a conflict there means another request just created the row, so the update
// is retried once.
func RecordAnalytics(db *gorm.DB, tenantConfigID int64, date string, kind string, cost float64) error {
	updates := map[string]interface{}{
		"ai_api_calls":    gorm.Expr("ai_api_calls + 1"),
		"ai_api_cost_usd": gorm.Expr("ai_api_cost_usd + ?", cost),
		"updated_at":      time.Now(),
	}
	if kind == models.MESSAGE_TYPE_DM {
		updates["dm_received"] = gorm.Expr("dm_received + 1")
		updates["dm_auto_replied"] = gorm.Expr("dm_auto_replied + 1")
	} else {
		updates["comments_received"] = gorm.Expr("comments_received + 1")
		updates["comments_auto_replied"] = gorm.Expr("comments_auto_replied + 1")
	}

	res := db.Model(&models.DailyAnalytics{}).
		Where("tenant_config_id = ? AND date = ?", tenantConfigID, date).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	row := models.DailyAnalytics{
		TenantConfigID: tenantConfigID,
		Date:           date,
		AiApiCalls:     1,
		AiApiCostUsd:   cost,
	}
	if kind == models.MESSAGE_TYPE_DM {
		row.DmReceived = 1
		row.DmAutoReplied = 1
	} else {
		row.CommentsReceived = 1
		row.CommentsAutoReplied = 1
	}

	if err := db.Create(&row).Error; err != nil {
		if !isUniqueViolation(err) {
			return err
		}
		// lost the insert race; the row exists now
		return db.Model(&models.DailyAnalytics{}).
			Where("tenant_config_id = ? AND date = ?", tenantConfigID, date).
			Updates(updates).Error
	}
	return nil
}
