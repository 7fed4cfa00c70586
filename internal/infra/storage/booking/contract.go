package booking

import "github.com/m04kA/SMC-ParkingOccupancy/pkg/dbmetrics"

// DBExecutor интерфейс для работы с БД (*sql.DB и *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor
