package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/okian/weekplan/pkg/metrics"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// classRow is the `classes` table.
type classRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Day         string `gorm:"not null;index"`
	StartTime   string `gorm:"column:start_time;size:5;not null"`
	EndTime     string `gorm:"column:end_time;size:5;not null"`
	CourseCode  string `gorm:"column:course_code;not null"`
	CourseTitle string `gorm:"column:course_title;not null"`
	TeacherCode string `gorm:"column:teacher_code"`
	Room        string
	Section     string
	CreatedAt   time.Time
}

func (classRow) TableName() string { return CollectionClasses }

// eventRow is the `events` table. Optional columns are nullable.
type eventRow struct {
	ID          string    `gorm:"primaryKey;size:36"`
	EventTitle  string    `gorm:"column:event_title;not null"`
	EventDate   time.Time `gorm:"column:event_date;type:date;not null;index"`
	StartTime   *string   `gorm:"column:start_time;size:5"`
	EndTime     *string   `gorm:"column:end_time;size:5"`
	Description *string
	CreatedAt   time.Time
}

func (eventRow) TableName() string { return CollectionEvents }

func classToRow(c model.ClassEntry) classRow {
	return classRow{
		ID:          c.ID,
		Day:         c.Day,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		CourseCode:  c.CourseCode,
		CourseTitle: c.CourseTitle,
		TeacherCode: c.TeacherCode,
		Room:        c.Room,
		Section:     c.Section,
	}
}

func classFromRow(r classRow) model.ClassEntry {
	return model.ClassEntry{
		ID:          r.ID,
		Day:         r.Day,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		CourseCode:  r.CourseCode,
		CourseTitle: r.CourseTitle,
		TeacherCode: r.TeacherCode,
		Room:        r.Room,
		Section:     r.Section,
	}
}

func eventToRow(e model.EventEntry) (eventRow, error) {
	d, err := time.Parse(schedule.DateLayout, e.Date)
	if err != nil {
		return eventRow{}, fmt.Errorf("%w: event_date %q", model.ErrInvalidDate, e.Date)
	}
	return eventRow{
		ID:          e.ID,
		EventTitle:  e.Title,
		EventDate:   d,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
	}, nil
}

func eventFromRow(r eventRow) model.EventEntry {
	return model.EventEntry{
		ID:          r.ID,
		Title:       r.EventTitle,
		Date:        r.EventDate.Format(schedule.DateLayout),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
	}
}

// GormStore persists both collections in Postgres through GORM.
type GormStore struct {
	db          *gorm.DB
	log         logger.Logger
	autoMigrate bool

	classes *gormCollection[model.ClassEntry, classRow]
	events  *gormCollection[model.EventEntry, eventRow]
}

// NewGormStore opens dsn with the Postgres driver.
func NewGormStore(ctx context.Context, dsn string, opts ...GormOption) (*GormStore, error) {
	s := &GormStore{autoMigrate: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("gorm")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newGormLogger(s.log)})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newGormStoreWithDB(ctx, s, db)
}

func newGormStoreWithDB(ctx context.Context, s *GormStore, db *gorm.DB) (*GormStore, error) {
	s.db = db
	if s.autoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&classRow{}, &eventRow{}); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	s.classes = &gormCollection[model.ClassEntry, classRow]{
		name:    CollectionClasses,
		db:      db,
		toRow:   func(c model.ClassEntry) (classRow, error) { return classToRow(c), nil },
		fromRow: classFromRow,
		setID:   func(r *classRow, id string) { r.ID = id },
	}
	s.events = &gormCollection[model.EventEntry, eventRow]{
		name:    CollectionEvents,
		db:      db,
		toRow:   eventToRow,
		fromRow: eventFromRow,
		setID:   func(r *eventRow, id string) { r.ID = id },
	}
	s.log.Info(ctx, "record store ready", logger.String("backend", "postgres"))
	return s, nil
}

// Classes returns the classes collection.
func (s *GormStore) Classes() ClassStore { return s.classes }

// Events returns the events collection.
func (s *GormStore) Events() EventStore { return s.events }

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormCollection[T Record[T], R any] struct {
	name    string
	db      *gorm.DB
	toRow   func(T) (R, error)
	fromRow func(R) T
	setID   func(*R, string)
}

func (c *gormCollection[T, R]) observe(op string, start time.Time, err *error) {
	metrics.RecordStoreLatency(c.name, op, float64(time.Since(start).Microseconds())/1000)
	if *err != nil {
		metrics.RecordStoreError(c.name, op)
	}
}

func (c *gormCollection[T, R]) List(ctx context.Context, q Query) (_ []T, err error) {
	defer c.observe("list", time.Now(), &err)
	if err = validate[T](q); err != nil {
		return nil, err
	}
	tx := c.db.WithContext(ctx)
	for _, w := range q.Where {
		tx = tx.Where(string(w.Field)+" = ?", w.Value)
	}
	for _, o := range orderClauses(q) {
		tx = tx.Order(o)
	}
	var rows []R
	if err = tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, c.fromRow(r))
	}
	return out, nil
}

func (c *gormCollection[T, R]) Get(ctx context.Context, id string) (_ T, err error) {
	defer c.observe("get", time.Now(), &err)
	var row R
	if err = c.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
		}
		return zero, err
	}
	return c.fromRow(row), nil
}

func (c *gormCollection[T, R]) Insert(ctx context.Context, rec T) (_ string, err error) {
	defer c.observe("insert", time.Now(), &err)
	row, err := c.toRow(rec)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	c.setID(&row, id)
	if err = c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return id, nil
}

func (c *gormCollection[T, R]) Update(ctx context.Context, id string, rec T) (err error) {
	defer c.observe("update", time.Now(), &err)
	row, err := c.toRow(rec)
	if err != nil {
		return err
	}
	c.setID(&row, id)
	res := c.db.WithContext(ctx).Model(new(R)).Where("id = ?", id).
		Select("*").Omit("id", "created_at").Updates(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
	}
	return nil
}

func (c *gormCollection[T, R]) Delete(ctx context.Context, id string) (err error) {
	defer c.observe("delete", time.Now(), &err)
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(R))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
	}
	return nil
}

func (c *gormCollection[T, R]) Count(ctx context.Context) (_ int, err error) {
	defer c.observe("count", time.Now(), &err)
	var n int64
	if err = c.db.WithContext(ctx).Model(new(R)).Count(&n).Error; err != nil {
		return 0, err
	}
	metrics.UpdateRecordsTotal(c.name, int(n))
	return int(n), nil
}

// orderClauses renders q.OrderBy as SQL. Fields are already validated column names.
func orderClauses(q Query) []string {
	out := make([]string, 0, len(q.OrderBy))
	for _, o := range q.OrderBy {
		var b strings.Builder
		b.WriteString(string(o.Field))
		if o.Desc {
			b.WriteString(" DESC NULLS LAST")
		} else {
			b.WriteString(" ASC NULLS FIRST")
		}
		out = append(out, b.String())
	}
	return out
}
