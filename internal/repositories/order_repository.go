package repositories

import (
	"errors"
	"time"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound = errors.New("review order not found")
	// ErrOrderStatusChanged - условный апдейт не нашел заказ в ожидаемом статусе
	ErrOrderStatusChanged = errors.New("review order status changed concurrently")
	ErrOrderFull          = errors.New("review order already complete")
)

type OrderFilter struct {
	ArtisanID string
	Status    models.OrderStatus
	Page      int
	PageSize  int
}

type OrderRepository interface {
	Create(db *gorm.DB, order *models.ReviewOrder) error
	FindByID(db *gorm.DB, id string) (*models.ReviewOrder, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.ReviewOrder, error)
	FindWithFilter(db *gorm.DB, filter OrderFilter) ([]models.ReviewOrder, int64, error)
	FindOpenForClaims(db *gorm.DB) ([]models.ReviewOrder, error)
	FindPendingByArtisan(db *gorm.DB, artisanID string) ([]models.ReviewOrder, error)
	Update(db *gorm.DB, order *models.ReviewOrder) error

	// Условные переходы
	TransitionStatus(db *gorm.DB, id string, from []models.OrderStatus, to models.OrderStatus, extra map[string]interface{}) error
	IncrementReceived(db *gorm.DB, id string) (*models.ReviewOrder, error)
}

type OrderRepositoryImpl struct{}

func NewOrderRepository() OrderRepository {
	return &OrderRepositoryImpl{}
}

func (r *OrderRepositoryImpl) Create(db *gorm.DB, order *models.ReviewOrder) error {
	return db.Create(order).Error
}

func (r *OrderRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ReviewOrder, error) {
	var order models.ReviewOrder
	if err := db.Preload("Sector").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate - то же внутри транзакции, с блокировкой строки заказа до commit.
// Параллельные захваты одного заказа выполняются по очереди.
func (r *OrderRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.ReviewOrder, error) {
	return r.FindByID(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *OrderRepositoryImpl) FindWithFilter(db *gorm.DB, filter OrderFilter) ([]models.ReviewOrder, int64, error) {
	var orders []models.ReviewOrder
	var total int64

	query := db.Model(&models.ReviewOrder{})
	if filter.ArtisanID != "" {
		query = query.Where("artisan_id = ?", filter.ArtisanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Preload("Sector").Order("created_at DESC").Find(&orders).Error
	return orders, total, err
}

// FindOpenForClaims - заказы, по которым гиды могут брать предложения
func (r *OrderRepositoryImpl) FindOpenForClaims(db *gorm.DB) ([]models.ReviewOrder, error) {
	var orders []models.ReviewOrder
	err := db.Preload("Sector").
		Where("status IN ?", []models.OrderStatus{models.OrderStatusSubmitted, models.OrderStatusInProgress}).
		Order("submitted_at ASC").
		Find(&orders).Error
	return orders, err
}

// FindPendingByArtisan - заказы, ожидающие оплаты пакета, в порядке отправки
func (r *OrderRepositoryImpl) FindPendingByArtisan(db *gorm.DB, artisanID string) ([]models.ReviewOrder, error) {
	var orders []models.ReviewOrder
	err := db.Where("artisan_id = ? AND status = ?", artisanID, models.OrderStatusPending).
		Order("submitted_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepositoryImpl) Update(db *gorm.DB, order *models.ReviewOrder) error {
	// Без ассоциаций: Sector и Proposals пишутся своими репозиториями
	return db.Omit("Sector", "Proposals").Save(order).Error
}

// TransitionStatus меняет статус только если заказ все еще в одном из from.
// Ноль затронутых строк - ErrOrderStatusChanged.
func (r *OrderRepositoryImpl) TransitionStatus(db *gorm.DB, id string, from []models.OrderStatus, to models.OrderStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to, "updated_at": time.Now()}
	for k, v := range extra {
		updates[k] = v
	}

	result := db.Model(&models.ReviewOrder{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

// IncrementReceived увеличивает счетчик полученных отзывов, не выходя за quantity.
// Возвращает заказ после апдейта.
func (r *OrderRepositoryImpl) IncrementReceived(db *gorm.DB, id string) (*models.ReviewOrder, error) {
	result := db.Model(&models.ReviewOrder{}).
		Where("id = ? AND reviews_received < quantity", id).
		Updates(map[string]interface{}{
			"reviews_received": gorm.Expr("reviews_received + 1"),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrOrderFull
	}
	return r.FindByID(db, id)
}
