// Package reports concentra as consultas agregadas do painel de relatórios.
// Roda SQL direto no pool pgx; o gorm fica com o CRUD.
package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

type MonthRevenue struct {
	Mes          int     `json:"mes"`
	Nome         string  `json:"nome"`
	Receita      float64 `json:"receita"`
	Atendimentos int64   `json:"atendimentos"`
}

type ServiceRank struct {
	ServicoID  uint    `json:"servico_id"`
	Servico    string  `json:"servico"`
	Quantidade int64   `json:"quantidade"`
	Receita    float64 `json:"receita"`
}

type ClientRank struct {
	ClienteID  uint    `json:"cliente_id"`
	Nome       string  `json:"nome"`
	Email      string  `json:"email"`
	Telefone   string  `json:"telefone"`
	Quantidade int64   `json:"quantidade"`
	Receita    float64 `json:"receita"`
}

type Stats struct {
	Ano            int     `json:"ano"`
	Total          int64   `json:"total"`
	Agendados      int64   `json:"agendados"`
	EmAndamento    int64   `json:"em_andamento"`
	Finalizados    int64   `json:"finalizados"`
	Cancelados     int64   `json:"cancelados"`
	Receita        float64 `json:"receita"`
	TicketMedio    float64 `json:"ticket_medio"`
	ClientesAtivos int64   `json:"clientes_ativos"`
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db queryer
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("reports: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB permite injetar um mock nos testes.
func NewRepositoryWithDB(db queryer) *Repository {
	return &Repository{db: db}
}

// datas são YYYY-MM-DD em texto, então o ano vira um prefixo
func yearPattern(year int) string {
	return fmt.Sprintf("%04d-%%", year)
}

// MonthlyRevenue devolve sempre 12 linhas; meses sem atendimento vêm zerados.
func (r *Repository) MonthlyRevenue(ctx context.Context, year int) ([]MonthRevenue, error) {
	out := make([]MonthRevenue, 12)
	for i := range out {
		out[i] = MonthRevenue{Mes: i + 1, Nome: monthNames[i]}
	}

	rows, err := r.db.Query(ctx, `
		SELECT CAST(SUBSTRING(date FROM 6 FOR 2) AS INTEGER) AS mes,
		       COALESCE(SUM(price), 0) AS receita,
		       COUNT(*) AS atendimentos
		FROM appointments
		WHERE status = 'finalizado' AND date LIKE $1
		GROUP BY mes
		ORDER BY mes`, yearPattern(year))
	if err != nil {
		return nil, fmt.Errorf("reports: monthly revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mes     int
			receita float64
			count   int64
		)
		if err := rows.Scan(&mes, &receita, &count); err != nil {
			return nil, fmt.Errorf("reports: monthly revenue scan: %w", err)
		}
		if mes < 1 || mes > 12 {
			continue
		}
		out[mes-1].Receita = receita
		out[mes-1].Atendimentos = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: monthly revenue rows: %w", err)
	}

	return out, nil
}

func (r *Repository) TopServices(ctx context.Context, year, limit int) ([]ServiceRank, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.name, COUNT(a.id) AS quantidade, COALESCE(SUM(a.price), 0) AS receita
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.status = 'finalizado' AND a.date LIKE $1
		GROUP BY s.id, s.name
		ORDER BY quantidade DESC, receita DESC
		LIMIT $2`, yearPattern(year), limit)
	if err != nil {
		return nil, fmt.Errorf("reports: top services: %w", err)
	}
	defer rows.Close()

	out := []ServiceRank{}
	for rows.Next() {
		var s ServiceRank
		if err := rows.Scan(&s.ServicoID, &s.Servico, &s.Quantidade, &s.Receita); err != nil {
			return nil, fmt.Errorf("reports: top services scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: top services rows: %w", err)
	}
	return out, nil
}

func (r *Repository) TopClients(ctx context.Context, year, limit int) ([]ClientRank, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, COALESCE(u.phone, ''), COUNT(a.id) AS quantidade, COALESCE(SUM(a.price), 0) AS receita
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		WHERE a.status = 'finalizado' AND a.date LIKE $1
		GROUP BY u.id, u.name, u.email, u.phone
		ORDER BY receita DESC, quantidade DESC
		LIMIT $2`, yearPattern(year), limit)
	if err != nil {
		return nil, fmt.Errorf("reports: top clients: %w", err)
	}
	defer rows.Close()

	out := []ClientRank{}
	for rows.Next() {
		var c ClientRank
		if err := rows.Scan(&c.ClienteID, &c.Nome, &c.Email, &c.Telefone, &c.Quantidade, &c.Receita); err != nil {
			return nil, fmt.Errorf("reports: top clients scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: top clients rows: %w", err)
	}
	return out, nil
}

func (r *Repository) Stats(ctx context.Context, year int) (*Stats, error) {
	s := &Stats{Ano: year}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'agendado'),
		       COUNT(*) FILTER (WHERE status = 'em_andamento'),
		       COUNT(*) FILTER (WHERE status = 'finalizado'),
		       COUNT(*) FILTER (WHERE status = 'cancelado'),
		       COALESCE(SUM(price) FILTER (WHERE status = 'finalizado'), 0),
		       COUNT(DISTINCT user_id)
		FROM appointments
		WHERE date LIKE $1`, yearPattern(year)).
		Scan(&s.Total, &s.Agendados, &s.EmAndamento, &s.Finalizados, &s.Cancelados, &s.Receita, &s.ClientesAtivos)
	if err != nil {
		return nil, fmt.Errorf("reports: stats: %w", err)
	}

	if s.Finalizados > 0 {
		s.TicketMedio = s.Receita / float64(s.Finalizados)
	}
	return s, nil
}
