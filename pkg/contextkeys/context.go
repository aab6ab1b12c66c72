package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB
	DBContextKey = contextKey("db")
	// UserIDKey и RoleKey выставляет AuthMiddleware
	UserIDKey = contextKey("userID")
	RoleKey   = contextKey("role")
)
