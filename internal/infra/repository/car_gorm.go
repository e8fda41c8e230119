package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/alpha-clean/internal/domain/car"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

type CarGormRepository struct {
	db *gorm.DB
}

func NewCarGormRepository(db *gorm.DB) *CarGormRepository {
	return &CarGormRepository{db: db}
}

func (r *CarGormRepository) List(ctx context.Context, userID uint) ([]models.Car, error) {
	return listCars(r.db.WithContext(ctx), userID)
}

func (r *CarGormRepository) Get(ctx context.Context, userID, carID uint) (*models.Car, error) {
	return getCar(r.db.WithContext(ctx), userID, carID, false)
}

func (r *CarGormRepository) Create(ctx context.Context, c *models.Car) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := lockUserCars(tx, c.UserID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Car{}).
			Where("user_id = ?", c.UserID).
			Count(&count).Error; err != nil {
			return err
		}

		// primeiro carro vira padrão
		if count == 0 {
			c.IsDefault = true
		}

		if c.IsDefault {
			if err := clearDefault(tx, c.UserID); err != nil {
				return err
			}
		}

		return tx.Create(c).Error
	})
}

func (r *CarGormRepository) Update(ctx context.Context, c *models.Car) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := lockUserCars(tx, c.UserID); err != nil {
			return err
		}

		current, err := getCar(tx, c.UserID, c.ID, true)
		if err != nil {
			return err
		}

		// desmarcar o padrão só acontece via SetDefault em outro carro
		if current.IsDefault {
			c.IsDefault = true
		}
		if c.IsDefault && !current.IsDefault {
			if err := clearDefault(tx, c.UserID); err != nil {
				return err
			}
		}

		c.CreatedAt = current.CreatedAt
		return tx.Save(c).Error
	})
}

func (r *CarGormRepository) Delete(ctx context.Context, userID, carID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := lockUserCars(tx, userID); err != nil {
			return err
		}

		current, err := getCar(tx, userID, carID, true)
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Car{}, current.ID).Error; err != nil {
			return err
		}

		if !current.IsDefault {
			return nil
		}

		remaining, err := listCars(tx, userID)
		if err != nil {
			return err
		}

		next, ok := car.Successor(remaining)
		if !ok {
			return nil
		}

		return tx.Model(&models.Car{}).
			Where("id = ?", next.ID).
			Update("is_default", true).Error
	})
}

func (r *CarGormRepository) SetDefault(ctx context.Context, userID, carID uint) ([]models.Car, error) {
	var cars []models.Car

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := lockUserCars(tx, userID); err != nil {
			return err
		}

		if _, err := getCar(tx, userID, carID, true); err != nil {
			return err
		}

		if err := clearDefault(tx, userID); err != nil {
			return err
		}

		if err := tx.Model(&models.Car{}).
			Where("id = ? AND user_id = ?", carID, userID).
			Update("is_default", true).Error; err != nil {
			return err
		}

		list, err := listCars(tx, userID)
		if err != nil {
			return err
		}
		cars = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	if d, ok := car.Default(cars); !ok || d.ID != carID {
		return nil, errors.New("repository: default car not persisted")
	}

	return car.MarkDefault(cars, carID), nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

// lockUserCars serializa as escritas nos carros do usuário até o fim da
// transação, inclusive o primeiro cadastro, quando não há linha para travar.
func lockUserCars(db *gorm.DB, userID uint) error {
	return db.Exec(
		"SELECT pg_advisory_xact_lock(hashtext(?))",
		fmt.Sprintf("cars:%d", userID),
	).Error
}

func listCars(db *gorm.DB, userID uint) ([]models.Car, error) {
	var cars []models.Car
	err := db.
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC, id DESC").
		Find(&cars).Error
	return cars, err
}

func getCar(db *gorm.DB, userID, carID uint, lock bool) (*models.Car, error) {
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var c models.Car
	if err := q.
		Where("id = ? AND user_id = ?", carID, userID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("car_not_found")
		}
		return nil, err
	}
	return &c, nil
}

func clearDefault(db *gorm.DB, userID uint) error {
	return db.Model(&models.Car{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

var _ car.Repository = (*CarGormRepository)(nil)
