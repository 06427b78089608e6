// internal/services/reminder_service.go
package services

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/gisportal/evisa-backend/internal/config"
)

// ReminderService runs the daily digest of submitted applications that have
// waited past the configured threshold without a decision.
type ReminderService struct {
	applications  *ApplicationService
	notifications *NotificationService
	config        *config.Config
	cron          *cron.Cron
}

func NewReminderService(applications *ApplicationService, notifications *NotificationService, cfg *config.Config) *ReminderService {
	return &ReminderService{
		applications:  applications,
		notifications: notifications,
		config:        cfg,
		cron:          cron.New(),
	}
}

func (s *ReminderService) Start() error {
	if !s.config.Reminder.Enabled {
		logrus.Info("Stale application reminders disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.Reminder.Schedule, s.RunOnce); err != nil {
		return err
	}

	s.cron.Start()
	logrus.WithField("schedule", s.config.Reminder.Schedule).Info("Stale application reminder scheduled")
	return nil
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// RunOnce executes a single digest pass. Failures are logged and retried on
// the next scheduled run; nothing here blocks the request path.
func (s *ReminderService) RunOnce() {
	apps, err := s.applications.StaleSubmitted(s.config.Reminder.StaleAfterDays)
	if err != nil {
		logrus.WithError(err).Error("Failed to collect stale applications")
		return
	}
	if len(apps) == 0 {
		return
	}

	if err := s.notifications.SendStaleApplicationsDigest(apps, s.config.Reminder.StaleAfterDays); err != nil {
		logrus.WithError(err).Error("Failed to send stale application digest")
		return
	}

	if err := s.applications.MarkReminded(apps); err != nil {
		logrus.WithError(err).Error("Failed to mark applications as reminded")
	}

	logrus.WithField("count", len(apps)).Info("Stale application digest sent")
}
