package car

import (
	"context"

	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

// Repository guarda os carros de cada cliente. Toda escrita que mexe no
// padrão roda em transação.
type Repository interface {
	List(ctx context.Context, userID uint) ([]models.Car, error)
	Get(ctx context.Context, userID, carID uint) (*models.Car, error)

	// Create marca o carro como padrão quando é o primeiro do cliente.
	Create(ctx context.Context, c *models.Car) error
	Update(ctx context.Context, c *models.Car) error

	// Delete promove o mais recente dos restantes se o removido era o padrão.
	Delete(ctx context.Context, userID, carID uint) error

	// SetDefault devolve a lista completa já com o novo padrão.
	SetDefault(ctx context.Context, userID, carID uint) ([]models.Car, error)
}
