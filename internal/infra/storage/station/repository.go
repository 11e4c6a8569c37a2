package station

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/EVC-BookingService/internal/domain"
	"github.com/m04kA/EVC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/EVC-BookingService/pkg/psqlbuilder"
)

// stationColumns полный набор колонок таблицы stations
var stationColumns = []string{
	"id",
	"owner_id",
	"name",
	"address",
	"latitude",
	"longitude",
	"connector_types",
	"power_output",
	"price_per_kwh",
	"open_time",
	"close_time",
	"slot_duration_minutes",
	"status",
	"approval_status",
	"total_slots",
	"available_slots",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со станциями.
// Хранит справочник станций и кэшированный счетчик available_slots (ledger).
// Счетчик меняют только переходы жизненного цикла бронирований и reconcile -
// оба через методы этого репозитория, всегда с атомарным UPDATE.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория станций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую станцию. Новая станция попадает на модерацию
// (approval_status задается вызывающим кодом), available_slots = total_slots.
func (r *Repository) Create(ctx context.Context, station *domain.Station) (*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stations").
		Columns(
			"owner_id",
			"name",
			"address",
			"latitude",
			"longitude",
			"connector_types",
			"power_output",
			"price_per_kwh",
			"open_time",
			"close_time",
			"slot_duration_minutes",
			"status",
			"approval_status",
			"total_slots",
			"available_slots",
		).
		Values(
			station.OwnerID,
			station.Name,
			station.Address,
			station.Latitude,
			station.Longitude,
			pq.Array(station.ConnectorTypes),
			station.PowerOutput,
			station.PricePerKwh,
			station.OpenTime,
			station.CloseTime,
			station.SlotDurationMinutes,
			station.Status,
			station.ApprovalStatus,
			station.TotalSlots,
			station.AvailableSlots,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&station.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	station.CreatedAt = createdAt.Time
	station.UpdatedAt = updatedAt.Time

	return station, nil
}

// GetByID получает станцию по ID.
// Внутри транзакции строка блокируется FOR UPDATE: транзакция допуска
// берет эту блокировку первой, и все конкурирующие допуски по одной станции
// выстраиваются в последовательный порядок.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(stationColumns...).
		From("stations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	station, err := scanStation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan station: %v", ErrScanRow, err)
	}

	return station, nil
}

// GetByOwnerID получает все станции владельца
func (r *Repository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(stationColumns...).
		From("stations").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanStations(rows)
}

// GetAllIDs возвращает ID всех станций.
// Используется периодическим reconciler для полного прохода по счетчикам.
func (r *Repository) GetAllIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("stations").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetAllIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// AdjustAvailableSlots атомарно сдвигает кэшированный счетчик на delta.
// Результат зажат в [0, total_slots] прямо в SQL: повторные инкременты
// (ретраи, конкурирующие отмены) не могут увести кэш за вместимость,
// а конкурирующие декременты - ниже нуля. UPDATE берет row lock, поэтому
// одновременные изменения одного счетчика сериализуются без lost update.
func (r *Repository) AdjustAvailableSlots(ctx context.Context, id int64, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("stations").
		Set("available_slots", squirrel.Expr("LEAST(total_slots, GREATEST(0, available_slots + ?))", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AdjustAvailableSlots - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "AdjustAvailableSlots", query, args)
}

// SetAvailableSlots выставляет счетчик в абсолютное значение.
// Используется reconcile-проходом; значение зажимается в [0, total_slots].
func (r *Repository) SetAvailableSlots(ctx context.Context, id int64, value int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("stations").
		Set("available_slots", squirrel.Expr("LEAST(total_slots, GREATEST(0, ?))", value)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetAvailableSlots - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, "SetAvailableSlots", query, args)
}

// execUpdate выполняет UPDATE и проверяет, что строка найдена
func (r *Repository) execUpdate(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

// scanStation сканирует одну строку станции
func scanStation(row *sql.Row) (*domain.Station, error) {
	var station domain.Station
	var connectorTypes pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&station.ID,
		&station.OwnerID,
		&station.Name,
		&station.Address,
		&station.Latitude,
		&station.Longitude,
		&connectorTypes,
		&station.PowerOutput,
		&station.PricePerKwh,
		&station.OpenTime,
		&station.CloseTime,
		&station.SlotDurationMinutes,
		&station.Status,
		&station.ApprovalStatus,
		&station.TotalSlots,
		&station.AvailableSlots,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	station.ConnectorTypes = connectorTypes
	station.CreatedAt = createdAt.Time
	station.UpdatedAt = updatedAt.Time

	return &station, nil
}

// scanStations сканирует результаты запроса в слайс станций
func scanStations(rows *sql.Rows) ([]*domain.Station, error) {
	stations := make([]*domain.Station, 0)

	for rows.Next() {
		var station domain.Station
		var connectorTypes pq.StringArray
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&station.ID,
			&station.OwnerID,
			&station.Name,
			&station.Address,
			&station.Latitude,
			&station.Longitude,
			&connectorTypes,
			&station.PowerOutput,
			&station.PricePerKwh,
			&station.OpenTime,
			&station.CloseTime,
			&station.SlotDurationMinutes,
			&station.Status,
			&station.ApprovalStatus,
			&station.TotalSlots,
			&station.AvailableSlots,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanStations - scan row: %v", ErrScanRow, err)
		}

		station.ConnectorTypes = connectorTypes
		station.CreatedAt = createdAt.Time
		station.UpdatedAt = updatedAt.Time

		stations = append(stations, &station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanStations - rows error: %v", ErrScanRow, err)
	}

	return stations, nil
}
