package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	closureRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/closure"
	scheduleRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/schedule"
	settingsRepo "github.com/krish-ktm/clinic-booking-service/internal/infra/storage/settings"
	"github.com/krish-ktm/clinic-booking-service/internal/service/schedule/models"
)

// Service is the administration surface for everything the booking checks
// read: weekday schedules, closure calendars and the patient-flow settings.
type Service struct {
	scheduleRepo ScheduleRepository
	closureRepo  ClosureRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService creates the schedule administration service.
func NewService(
	scheduleRepository ScheduleRepository,
	closureRepository ClosureRepository,
	settingsRepository SettingsRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepository,
		closureRepo:  closureRepository,
		settingsRepo: settingsRepository,
		txManager:    txManager,
		logger:       logger,
	}
}

// Working days

// GetWorkingDay fetches one weekday configuration.
func (s *Service) GetWorkingDay(ctx context.Context, dayName string) (*models.WorkingDayResponse, error) {
	day, err := domain.ParseWeekday(dayName)
	if err != nil {
		s.logger.Warn("GetWorkingDay: invalid weekday=%q", dayName)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	config, err := s.scheduleRepo.GetWorkingDay(ctx, day)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDayNotFound) {
			s.logger.Warn("GetWorkingDay: no configuration for %s", day)
			return nil, ErrDayNotFound
		}
		s.logger.Error("GetWorkingDay: repository error for %s: %v", day, err)
		return nil, fmt.Errorf("%w: GetWorkingDay - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWorkingDay(config), nil
}

// GetWeek fetches the full weekly schedule.
func (s *Service) GetWeek(ctx context.Context) (*models.WeekResponse, error) {
	s.logger.Info("GetWeek: fetching weekly schedule")

	days, err := s.scheduleRepo.GetWeek(ctx)
	if err != nil {
		s.logger.Error("GetWeek: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(days), nil
}

// UpdateWorkingDay replaces one weekday configuration. The slot list is
// validated before the write: labels must parse, be unique, and capacities
// stay within bounds. The old slots are replaced in one transaction.
func (s *Service) UpdateWorkingDay(ctx context.Context, dayName string, req *models.UpdateWorkingDayRequest) (*models.WorkingDayResponse, error) {
	day, err := domain.ParseWeekday(dayName)
	if err != nil {
		s.logger.Warn("UpdateWorkingDay: invalid weekday=%q", dayName)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slots := req.ToDomainSlots()
	if err := domain.ValidateSlots(slots); err != nil {
		s.logger.Warn("UpdateWorkingDay: invalid slots for %s: %v", day, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	config := &domain.WorkingDay{
		Day:       day,
		IsWorking: req.IsWorking,
		Slots:     slots,
	}

	s.logger.Info("UpdateWorkingDay: updating %s, isWorking=%t, slots=%d", day, req.IsWorking, len(slots))

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.UpsertWorkingDay(txCtx, config)
	})
	if err != nil {
		s.logger.Error("UpdateWorkingDay: repository error for %s: %v", day, err)
		return nil, fmt.Errorf("%w: UpdateWorkingDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingDay: successfully updated %s", day)
	return models.FromDomainWorkingDay(config), nil
}

// Closure calendars

// ListClosures fetches closure dates from the given date on. An empty set
// name lists both calendars.
func (s *Service) ListClosures(ctx context.Context, setName string, fromDate time.Time) (*models.ClosureListResponse, error) {
	var set *domain.ClosureSet
	if setName != "" {
		parsed := domain.ClosureSet(setName)
		if !parsed.IsValid() {
			s.logger.Warn("ListClosures: invalid set=%q", setName)
			return nil, fmt.Errorf("%w: unknown closure set %q", ErrInvalidInput, setName)
		}
		set = &parsed
	}

	closures, err := s.closureRepo.ListFromDate(ctx, set, domain.DateOnly(fromDate))
	if err != nil {
		s.logger.Error("ListClosures: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListClosures - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClosureList(closures), nil
}

// AddClosure adds a date to a closure set.
func (s *Service) AddClosure(ctx context.Context, req *models.AddClosureRequest) (*models.ClosureResponse, error) {
	set := domain.ClosureSet(req.Set)
	if !set.IsValid() {
		s.logger.Warn("AddClosure: invalid set=%q", req.Set)
		return nil, fmt.Errorf("%w: unknown closure set %q", ErrInvalidInput, req.Set)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("AddClosure: invalid date=%q", req.Date)
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	s.logger.Info("AddClosure: adding %s closure on %s", set, req.Date)

	created, err := s.closureRepo.Create(ctx, &domain.ClosureDate{
		Set:    set,
		Date:   date,
		Reason: req.Reason,
	})
	if err != nil {
		if errors.Is(err, closureRepo.ErrDuplicateClosure) {
			s.logger.Warn("AddClosure: %s closure on %s already exists", set, req.Date)
			return nil, ErrDuplicateClosure
		}
		s.logger.Error("AddClosure: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddClosure - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddClosure: successfully added %s closure on %s", set, req.Date)
	return models.FromDomainClosure(created), nil
}

// RemoveClosure removes a date from a closure set.
func (s *Service) RemoveClosure(ctx context.Context, setName, dateStr string) error {
	set := domain.ClosureSet(setName)
	if !set.IsValid() {
		s.logger.Warn("RemoveClosure: invalid set=%q", setName)
		return fmt.Errorf("%w: unknown closure set %q", ErrInvalidInput, setName)
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		s.logger.Warn("RemoveClosure: invalid date=%q", dateStr)
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, dateStr)
	}

	s.logger.Info("RemoveClosure: removing %s closure on %s", set, dateStr)

	if err := s.closureRepo.DeleteByDate(ctx, set, date); err != nil {
		if errors.Is(err, closureRepo.ErrClosureNotFound) {
			s.logger.Warn("RemoveClosure: %s closure on %s not found", set, dateStr)
			return ErrClosureNotFound
		}
		s.logger.Error("RemoveClosure: repository error: %v", err)
		return fmt.Errorf("%w: RemoveClosure - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveClosure: successfully removed %s closure on %s", set, dateStr)
	return nil
}

// Booking settings

// GetSettings fetches the booking settings, falling back to the defaults when
// no row has been configured yet.
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: no settings configured, returning defaults")
			return models.FromDomainSettings(domain.DefaultBookingSettings()), nil
		}
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// UpdateSettings replaces the booking settings singleton. The domain
// invariants are checked before anything is written, so a malformed settings
// blob never reaches storage.
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	settings := req.ToDomain()
	if err := settings.Validate(); err != nil {
		s.logger.Warn("UpdateSettings: invalid settings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("UpdateSettings: updating booking settings, options=%d", len(settings.DateSelectionOptions))

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.settingsRepo.Update(txCtx, settings)
	})
	if err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully updated booking settings")
	return models.FromDomainSettings(settings), nil
}
