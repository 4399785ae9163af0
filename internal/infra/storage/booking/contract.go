package booking

import (
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
)

// Переиспользуем интерфейс исполнителя запросов из dbmetrics
// Поддерживает *sql.DB и обёртку *dbmetrics.DB с метриками
type DBExecutor = dbmetrics.DBExecutor
