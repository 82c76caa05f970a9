package services

import (
	"log"
	"time"

	"fyp-management-api/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// reminderWindow is how far ahead the sweep looks for due deadlines.
const reminderWindow = 48 * time.Hour

// ReminderService re-notifies enrolled students about phase deadlines
// that are about to pass. Runs daily; clients deduplicate repeats.
type ReminderService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	cron       *cron.Cron
}

func NewReminderService(db *gorm.DB, dispatcher *Dispatcher) *ReminderService {
	return &ReminderService{
		db:         db,
		dispatcher: dispatcher,
		cron:       cron.New(cron.WithLocation(time.Local)),
	}
}

// Start schedules the daily sweep at 08:00 server time.
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc("0 8 * * *", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// Sweep finds deadlines due within the reminder window and dispatches a
// deadline_reminder to each project's enrolled students.
func (s *ReminderService) Sweep() {
	now := time.Now()

	var deadlines []models.PhaseDeadline
	if err := s.db.Where("due_date > ? AND due_date <= ?", now, now.Add(reminderWindow)).
		Find(&deadlines).Error; err != nil {
		log.Printf("deadline sweep query failed: %v", err)
		return
	}

	for _, deadline := range deadlines {
		facts, err := LoadProjectFacts(s.db, deadline.ProjectID)
		if err != nil {
			log.Printf("deadline sweep: load project %d: %v", deadline.ProjectID, err)
			continue
		}

		var project models.Project
		if err := s.db.Select("project_id", "title").
			First(&project, "project_id = ?", deadline.ProjectID).Error; err != nil {
			log.Printf("deadline sweep: project %d: %v", deadline.ProjectID, err)
			continue
		}

		event := DeadlineApproaching{
			ProjectID:    deadline.ProjectID,
			ProjectTitle: project.Title,
			Phase:        deadline.Phase,
			DueDate:      deadline.DueDate,
		}

		var created []models.Notification
		err = s.db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			created, txErr = s.dispatcher.Dispatch(tx, event, facts)
			return txErr
		})
		if err != nil {
			log.Printf("deadline sweep: dispatch for project %d: %v", deadline.ProjectID, err)
			continue
		}
		s.dispatcher.Publish(created)
	}
}
