// Package jobs runs periodic housekeeping. Nothing here touches the order or
// hire-request state machines; those only move through admin actions.
package jobs

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
)

func Start(db *gorm.DB, log *slog.Logger) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() { purgeStaleRefreshTokens(db, log) })
	c.AddFunc("@hourly", func() { clearEndedSales(db, log) })

	c.Start()
	return c
}

func purgeStaleRefreshTokens(db *gorm.DB, log *slog.Logger) {
	res := db.Where("revoked = ? OR expires_at < ?", true, time.Now().Unix()).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		log.Error("refresh token purge failed", "error", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Info("purged stale refresh tokens", "count", res.RowsAffected)
	}
}

func clearEndedSales(db *gorm.DB, log *slog.Logger) {
	res := db.Model(&models.Product{}).
		Where("is_on_sale = ? AND sale_end_date IS NOT NULL AND sale_end_date < ?", true, time.Now()).
		Update("is_on_sale", false)
	if res.Error != nil {
		log.Error("sale flag sweep failed", "error", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Info("cleared ended sales", "count", res.RowsAffected)
	}
}
