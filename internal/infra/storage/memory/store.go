// Package memory is an in-process implementation of the catalog, working
// hours, settings and reservation storages. Transactions are serialized by a
// single mutex and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
)

// Ошибки совпадают с ошибками Postgres-репозиториев, чтобы сервисы проверяли одно и то же
var (
	ErrReservationNotFound = reservation.ErrReservationNotFound
	ErrTableNotFound       = reservation.ErrTableNotFound
	ErrRoomNotFound        = catalog.ErrRoomNotFound
	ErrSettingsNotFound    = settings.ErrSettingsNotFound
)

type txKey struct{}

// Store in-memory хранилище
type Store struct {
	mu sync.RWMutex

	rooms        map[int64]*domain.Room
	tables       map[int64]*domain.Table
	weekly       domain.WeeklyHours
	specialDays  map[string]domain.SpecialDay
	settings     *domain.BookingSettings
	reservations map[int64]*domain.Reservation
	nextID       int64
	now          func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		rooms:        make(map[int64]*domain.Room),
		tables:       make(map[int64]*domain.Table),
		weekly:       make(domain.WeeklyHours),
		specialDays:  make(map[string]domain.SpecialDay),
		reservations: make(map[int64]*domain.Reservation),
		now:          time.Now,
	}
}

// --- Транзакции ---

// Do выполняет fn атомарно
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

// DoSerializable выполняет fn под эксклюзивной блокировкой хранилища.
// При ошибке все изменения откатываются.
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshotLocked()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restoreLocked(snapshot)
		return err
	}
	return nil
}

// DoReadOnly выполняет fn под разделяемой блокировкой
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) read(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	reservations map[int64]*domain.Reservation
	nextID       int64
	settings     *domain.BookingSettings
}

func (s *Store) snapshotLocked() snapshot {
	res := make(map[int64]*domain.Reservation, len(s.reservations))
	for id, r := range s.reservations {
		res[id] = cloneReservation(r)
	}
	var bs *domain.BookingSettings
	if s.settings != nil {
		copied := *s.settings
		bs = &copied
	}
	return snapshot{reservations: res, nextID: s.nextID, settings: bs}
}

func (s *Store) restoreLocked(snap snapshot) {
	s.reservations = snap.reservations
	s.nextID = snap.nextID
	s.settings = snap.settings
}

// --- Наполнение каталога (каталог редактируется вне движка) ---

// PutRoom добавляет или заменяет зал
func (s *Store) PutRoom(room domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = &room
}

// PutTable добавляет или заменяет стол
func (s *Store) PutTable(table domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.ID] = &table
}

// SetWeekday задает расписание дня недели
func (s *Store) SetWeekday(day time.Weekday, schedule domain.DaySchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly[day] = schedule
}

// AddSpecialDay задает особое расписание на дату
func (s *Store) AddSpecialDay(day domain.SpecialDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specialDays[day.Date.Format(domain.DateFormat)] = day
}

// --- Каталог ---

// ListActiveRooms возвращает активные залы
func (s *Store) ListActiveRooms(ctx context.Context) ([]*domain.Room, error) {
	defer s.read(ctx)()

	rooms := make([]*domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if r.Active {
			copied := *r
			rooms = append(rooms, &copied)
		}
	}
	slices.SortFunc(rooms, domain.CompareRooms)
	return rooms, nil
}

// GetRoom возвращает зал по ID
func (s *Store) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	defer s.read(ctx)()

	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	copied := *r
	return &copied, nil
}

// ListActiveTables возвращает активные столы указанных залов (nil = всех залов)
func (s *Store) ListActiveTables(ctx context.Context, roomIDs []int64) ([]*domain.Table, error) {
	defer s.read(ctx)()

	tables := make([]*domain.Table, 0, len(s.tables))
	for _, t := range s.tables {
		if !t.Active {
			continue
		}
		if roomIDs != nil && !slices.Contains(roomIDs, t.RoomID) {
			continue
		}
		copied := *t
		tables = append(tables, &copied)
	}
	slices.SortFunc(tables, func(a, b *domain.Table) int { return compareInt64(a.ID, b.ID) })
	return tables, nil
}

// GetTablesByIDs возвращает столы по ID, включая неактивные
func (s *Store) GetTablesByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error) {
	defer s.read(ctx)()

	tables := make([]*domain.Table, 0, len(ids))
	for _, id := range ids {
		t, ok := s.tables[id]
		if !ok {
			continue
		}
		copied := *t
		tables = append(tables, &copied)
	}
	return tables, nil
}

// --- Рабочие часы ---

// HoursFor возвращает расписание на дату: особый день важнее дня недели
func (s *Store) HoursFor(ctx context.Context, date time.Time) (domain.DaySchedule, error) {
	defer s.read(ctx)()

	if special, ok := s.specialDays[date.Format(domain.DateFormat)]; ok {
		return special.Schedule, nil
	}
	if schedule, ok := s.weekly[date.Weekday()]; ok {
		return schedule, nil
	}
	return domain.Closed(), nil
}

// --- Настройки ---

// GetSettings возвращает сохранённые настройки бронирования
func (s *Store) GetSettings(ctx context.Context) (*domain.BookingSettings, error) {
	defer s.read(ctx)()

	if s.settings == nil {
		return nil, ErrSettingsNotFound
	}
	copied := *s.settings
	return &copied, nil
}

// UpsertSettings сохраняет настройки бронирования
func (s *Store) UpsertSettings(ctx context.Context, bs domain.BookingSettings) (*domain.BookingSettings, error) {
	defer s.write(ctx)()

	bs.UpdatedAt = s.now()
	s.settings = &bs
	copied := bs
	return &copied, nil
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
