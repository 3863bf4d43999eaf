package services

import (
	"encoding/json"
	"time"

	"github.com/horseradish/comparebot/internal/models"
	"github.com/horseradish/comparebot/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var auditDB *gorm.DB

// InitSystemLogger sets the database used for audit writes. Audit logging is
// best-effort: before init, or on write failure, entries are dropped.
func InitSystemLogger(db *gorm.DB) {
	auditDB = db
}

func LogInfo(module, action, message, clientID, ip, userAgent string, extra interface{}) {
	writeLog("info", module, action, message, clientID, ip, userAgent, extra)
}

func LogError(module, action, message, clientID, ip, userAgent string, extra interface{}) {
	writeLog("error", module, action, message, clientID, ip, userAgent, extra)
}

func writeLog(level, module, action, message, clientID, ip, userAgent string, extra interface{}) {
	if auditDB == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		ClientID:  clientID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	auditDB.Create(entry)
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

// CleanupOldLogs deletes audit entries older than retentionDays and returns
// how many were removed. retentionDays <= 0 disables cleanup.
func (s *SystemLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartCleanupScheduler runs a daily audit-log cleanup. The returned cron
// should be stopped on shutdown.
func StartCleanupScheduler(db *gorm.DB, retentionDays int) *cron.Cron {
	service := NewSystemLogService(db)

	run := func() {
		deleted, err := service.CleanupOldLogs(retentionDays)
		if err != nil {
			logger.Errorf("[SystemLog] Failed to cleanup old logs: %v", err)
			return
		}
		if deleted > 0 {
			logger.Infof("[SystemLog] Cleaned up %d logs older than %d days", deleted, retentionDays)
		}
	}

	run()

	scheduler := cron.New()
	scheduler.AddFunc("@daily", run)
	scheduler.Start()
	return scheduler
}
