package repository

import (
	"encoding/json"

	"shift-planner/internal/models"
	"shift-planner/internal/storage"

	"github.com/sirupsen/logrus"
)

// Key layout in the persistence medium: one record per schedule, one
// index record holding the ordered list of known ids, and one singleton
// record holding the current-schedule id.
const (
	schedulePrefix     = "schedule_"
	schedulesListKey   = "schedules_list"
	currentScheduleKey = "currentSchedule"
)

type ScheduleRepository interface {
	Get(id string) (*models.Schedule, error)
	Put(schedule *models.Schedule) error
	Delete(id string) error
	List() ([]*models.Schedule, error)
	CurrentID() (string, error)
	SetCurrentID(id string) error
	ClearCurrentID() error
}

// KVScheduleRepository stores each schedule as the JSON serialization of
// the whole aggregate. Every write replaces the full record; there is no
// field-level persistence.
type KVScheduleRepository struct {
	kv     storage.KV
	logger *logrus.Logger
}

func NewKVScheduleRepository(kv storage.KV) *KVScheduleRepository {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &KVScheduleRepository{
		kv:     kv,
		logger: logger,
	}
}

// Get returns the schedule for id, or nil when the record is absent.
// An unreadable or corrupted record is treated as absence.
func (r *KVScheduleRepository) Get(id string) (*models.Schedule, error) {
	value, ok, err := r.kv.Get(schedulePrefix + id)
	if err != nil {
		r.logger.WithError(err).WithField("id", id).Error("Failed to read schedule record")
		return nil, nil
	}
	if !ok {
		r.logger.WithField("id", id).Debug("Schedule not found")
		return nil, nil
	}

	var schedule models.Schedule
	if err := json.Unmarshal([]byte(value), &schedule); err != nil {
		r.logger.WithError(err).WithField("id", id).Error("Failed to decode schedule record")
		return nil, nil
	}

	return &schedule, nil
}

// Put persists the full schedule record and registers the id in the
// index if it is new.
func (r *KVScheduleRepository) Put(schedule *models.Schedule) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		r.logger.WithError(err).WithField("id", schedule.ID).Error("Failed to encode schedule")
		return err
	}

	if err := r.kv.Set(schedulePrefix+schedule.ID, string(payload)); err != nil {
		r.logger.WithError(err).WithField("id", schedule.ID).Error("Failed to write schedule record")
		return err
	}

	ids, err := r.listIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == schedule.ID {
			return nil
		}
	}

	return r.writeIDs(append(ids, schedule.ID))
}

// Delete removes the record and its index entry, and clears the
// current-schedule pointer if it targeted this id. Deleting an unknown
// id is a no-op.
func (r *KVScheduleRepository) Delete(id string) error {
	if err := r.kv.Remove(schedulePrefix + id); err != nil {
		r.logger.WithError(err).WithField("id", id).Error("Failed to remove schedule record")
		return err
	}

	ids, err := r.listIDs()
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(ids))
	for _, known := range ids {
		if known != id {
			kept = append(kept, known)
		}
	}
	if err := r.writeIDs(kept); err != nil {
		return err
	}

	current, err := r.CurrentID()
	if err != nil {
		return err
	}
	if current == id {
		return r.ClearCurrentID()
	}

	return nil
}

// List returns every schedule referenced by the index, skipping ids
// whose record is missing.
func (r *KVScheduleRepository) List() ([]*models.Schedule, error) {
	ids, err := r.listIDs()
	if err != nil {
		return nil, err
	}

	schedules := make([]*models.Schedule, 0, len(ids))
	for _, id := range ids {
		schedule, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		if schedule != nil {
			schedules = append(schedules, schedule)
		}
	}

	r.logger.WithField("count", len(schedules)).Debug("Retrieved all schedules")
	return schedules, nil
}

// CurrentID returns the current-schedule pointer, or "" when unset.
func (r *KVScheduleRepository) CurrentID() (string, error) {
	value, ok, err := r.kv.Get(currentScheduleKey)
	if err != nil {
		r.logger.WithError(err).Error("Failed to read current schedule pointer")
		return "", nil
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (r *KVScheduleRepository) SetCurrentID(id string) error {
	if err := r.kv.Set(currentScheduleKey, id); err != nil {
		r.logger.WithError(err).WithField("id", id).Error("Failed to set current schedule pointer")
		return err
	}
	return nil
}

func (r *KVScheduleRepository) ClearCurrentID() error {
	if err := r.kv.Remove(currentScheduleKey); err != nil {
		r.logger.WithError(err).Error("Failed to clear current schedule pointer")
		return err
	}
	return nil
}

func (r *KVScheduleRepository) listIDs() ([]string, error) {
	value, ok, err := r.kv.Get(schedulesListKey)
	if err != nil {
		r.logger.WithError(err).Error("Failed to read schedule index")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		r.logger.WithError(err).Error("Failed to decode schedule index")
		return nil, nil
	}
	return ids, nil
}

func (r *KVScheduleRepository) writeIDs(ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := r.kv.Set(schedulesListKey, string(payload)); err != nil {
		r.logger.WithError(err).Error("Failed to write schedule index")
		return err
	}
	return nil
}
