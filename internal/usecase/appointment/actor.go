package appointment

import "github.com/BruksfildServices01/alpha-clean/internal/models"

// Actor é o usuário autenticado que dispara a operação.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
