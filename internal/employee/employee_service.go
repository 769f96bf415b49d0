package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	employeeerrors "go-empower/internal/employee/errors"
	"go-empower/internal/events"
	"go-empower/internal/messaging/kafka"
	"go-empower/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatsCacheKey        = "employees:stats"
	StatsGenerationKey   = "employees:stats:gen"
	DefaultStatsCacheTTL = 5 * time.Minute

	// RecentLimit is the size of the recent activity feed.
	RecentLimit = 5

	aggregateType = "employee"
)

// StatsCacheKeyFor is the snapshot key of one stats generation.
func StatsCacheKeyFor(gen string) string {
	return StatsCacheKey + ":" + gen
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)
	GetRecent(ctx context.Context) ([]EmployeeResponse, error)
	GetDepartments(ctx context.Context) ([]DepartmentSummaryResponse, error)
	Update(ctx context.Context, id string, patch Patch) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	statsTTL time.Duration
	sf       *singleflight.Group
	localGen atomic.Uint64
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, DefaultStatsCacheTTL, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	statsTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if statsTTL <= 0 {
		statsTTL = DefaultStatsCacheTTL
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		rdb:      rdb,
		statsTTL: statsTTL,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	empl := &Employee{
		Name:       req.FirstName + " " + req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Status:     req.Status,
		JoinDate:   req.StartDate,
		Salary:     req.Salary,
		Avatar:     req.Avatar,
	}
	if empl.Status == "" {
		empl.Status = StatusActive
	}
	if empl.Avatar == "" {
		empl.Avatar = DefaultAvatar
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Insert(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueLifecycle(ctx, tx, events.EmployeeCreated, *empl); err != nil {
		s.logger.Error("create employee outbox persist failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateStats(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("request_id", contextutil.GetRequestID(ctx)))
	empls, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) GetStats(ctx context.Context) (StatsResponse, error) {
	gen, cacheable := s.statsGeneration(ctx)
	cacheKey := StatsCacheKeyFor(gen)

	if cacheable {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp StatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("read stats cache failed", zap.Error(err))
		}
	}

	// Concurrent misses of the same generation share one round of aggregate
	// queries. The round outlives the caller that started it.
	flightKey := cacheKey + ":" + strconv.FormatUint(s.localGen.Load(), 10)
	bg := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(flightKey, func() (interface{}, error) {
		stats, err := s.computeStats(bg)
		if err != nil {
			return nil, err
		}

		if cacheable {
			if payload, err := json.Marshal(stats); err == nil {
				if err := s.rdb.Set(bg, cacheKey, string(payload), s.statsTTL).Err(); err != nil {
					s.logger.Warn("write stats cache failed", zap.Error(err))
				}
			}
		}
		return stats, nil
	})
	if err != nil {
		return StatsResponse{}, err
	}

	return v.(StatsResponse), nil
}

// statsGeneration returns the current stats generation and whether the
// cache may be used. A snapshot is only ever stored under the generation
// read before it was computed, so a mutation that bumps the generation
// makes every older snapshot unreachable.
func (s *service) statsGeneration(ctx context.Context) (string, bool) {
	if s.rdb == nil {
		return "0", false
	}
	gen, err := s.rdb.Get(ctx, StatsGenerationKey).Result()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return "0", true
	default:
		s.logger.Warn("read stats generation failed", zap.Error(err))
		return "", false
	}
}

func (s *service) computeStats(ctx context.Context) (StatsResponse, error) {
	total, err := s.repo.Count(ctx, Filter{})
	if err != nil {
		s.logger.Error("stats count total failed", zap.Error(err))
		return StatsResponse{}, mapRepositoryError(err)
	}

	active, err := s.repo.Count(ctx, Filter{FieldStatus: StatusActive})
	if err != nil {
		s.logger.Error("stats count active failed", zap.Error(err))
		return StatsResponse{}, mapRepositoryError(err)
	}

	avgSalary, err := s.repo.AverageNumericField(ctx, FieldSalary)
	if err != nil {
		s.logger.Error("stats average salary failed", zap.Error(err))
		return StatsResponse{}, mapRepositoryError(err)
	}

	onLeave, err := s.repo.Count(ctx, Filter{FieldStatus: StatusOnLeave})
	if err != nil {
		s.logger.Error("stats count on leave failed", zap.Error(err))
		return StatsResponse{}, mapRepositoryError(err)
	}

	departments, err := s.repo.DistinctValues(ctx, FieldDepartment)
	if err != nil {
		s.logger.Error("stats distinct departments failed", zap.Error(err))
		return StatsResponse{}, mapRepositoryError(err)
	}

	return StatsResponse{
		TotalEmployees:  total,
		ActiveToday:     active,
		AvgSalary:       avgSalary,
		OnLeave:         onLeave,
		DepartmentCount: len(departments),
	}, nil
}

func (s *service) GetRecent(ctx context.Context) ([]EmployeeResponse, error) {
	empls, err := s.repo.ListRecent(ctx, RecentLimit)
	if err != nil {
		s.logger.Error("get recent employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetDepartments(ctx context.Context) ([]DepartmentSummaryResponse, error) {
	groups, err := s.repo.CountByField(ctx, FieldDepartment)
	if err != nil {
		s.logger.Error("get departments failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]DepartmentSummaryResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, DepartmentSummaryResponse{Name: g.Value, EmployeeCount: g.Count})
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, patch Patch) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Int("fields", len(patch)),
	)

	changes, err := patch.Changes()
	if err != nil {
		s.logger.Warn("update employee rejected patch", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	if len(changes) == 0 {
		return s.GetByID(ctx, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	empl, err := s.repo.WithTx(tx).Update(ctx, id, changes)
	if err != nil {
		s.logger.Warn("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueLifecycle(ctx, tx, events.EmployeeUpdated, *empl); err != nil {
		s.logger.Error("update employee outbox persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateStats(ctx)
	s.logger.Info("update employee success", zap.String("request_id", rid), zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested", zap.String("request_id", rid), zap.String("employee_id", id))

	parsed, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		s.logger.Warn("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueueLifecycle(ctx, tx, events.EmployeeDeleted, Employee{ID: parsed}); err != nil {
		s.logger.Error("delete employee outbox persist failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateStats(ctx)
	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.String("employee_id", id))
	return nil
}

// enqueueLifecycle writes the lifecycle event on tx. No-op without an outbox.
func (s *service) enqueueLifecycle(ctx context.Context, tx *sql.Tx, eventType string, empl Employee) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: empl.ID.String(),
		Department: empl.Department,
		Status:     empl.Status,
		OccurredAt: time.Now().UTC(),
	}

	row, err := kafka.NewOutboxEvent(
		events.EmployeeLifecycleTopic,
		aggregateType,
		event.EmployeeID,
		eventType,
		rid,
		event,
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, row)
}

func (s *service) invalidateStats(ctx context.Context) {
	s.localGen.Add(1)
	if s.rdb == nil {
		return
	}

	// Runs after commit; the client may already be gone.
	ctx = context.WithoutCancel(ctx)
	gen, err := s.rdb.Incr(ctx, StatsGenerationKey).Result()
	if err != nil {
		s.logger.Error("failed to invalidate employee stats cache",
			zap.Error(err),
			zap.String("key", StatsGenerationKey),
		)
		return
	}

	stale := StatsCacheKeyFor(strconv.FormatInt(gen-1, 10))
	if err := s.rdb.Del(ctx, stale).Err(); err != nil {
		s.logger.Warn("failed to drop stale stats snapshot", zap.Error(err), zap.String("key", stale))
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         empl.ID.String(),
		Name:       empl.Name,
		Email:      empl.Email,
		Phone:      empl.Phone,
		Department: empl.Department,
		Position:   empl.Position,
		Status:     empl.Status,
		JoinDate:   empl.JoinDate,
		Salary:     empl.Salary,
		Avatar:     empl.Avatar,
		CreatedAt:  empl.CreatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(empls))
	for _, e := range empls {
		resp = append(resp, mapToResponse(e))
	}
	return resp
}
