package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook reúne o que vai para a planilha anual.
type Workbook struct {
	Year     int
	Stats    *Stats
	Monthly  []MonthRevenue
	Services []ServiceRank
	Clients  []ClientRank
}

const exportTopLimit = 20

// Collect executa as consultas do relatório anual.
func (r *Repository) Collect(ctx context.Context, year int) (*Workbook, error) {
	stats, err := r.Stats(ctx, year)
	if err != nil {
		return nil, err
	}
	monthly, err := r.MonthlyRevenue(ctx, year)
	if err != nil {
		return nil, err
	}
	services, err := r.TopServices(ctx, year, exportTopLimit)
	if err != nil {
		return nil, err
	}
	clients, err := r.TopClients(ctx, year, exportTopLimit)
	if err != nil {
		return nil, err
	}

	return &Workbook{
		Year:     year,
		Stats:    stats,
		Monthly:  monthly,
		Services: services,
		Clients:  clients,
	}, nil
}

// Build monta o xlsx com uma aba por tabela.
func (w *Workbook) Build() (*excelize.File, error) {
	f := excelize.NewFile()

	const summary = "Resumo"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Ano", w.Year},
		{"Total de agendamentos", w.Stats.Total},
		{"Agendados", w.Stats.Agendados},
		{"Em andamento", w.Stats.EmAndamento},
		{"Finalizados", w.Stats.Finalizados},
		{"Cancelados", w.Stats.Cancelados},
		{"Receita (R$)", w.Stats.Receita},
		{"Ticket médio (R$)", w.Stats.TicketMedio},
		{"Clientes atendidos", w.Stats.ClientesAtivos},
	}
	if err := writeRows(f, summary, rows); err != nil {
		return nil, err
	}

	monthly := [][]any{{"Mês", "Atendimentos", "Receita (R$)"}}
	for _, m := range w.Monthly {
		monthly = append(monthly, []any{m.Nome, m.Atendimentos, m.Receita})
	}
	if err := writeSheet(f, "Receita mensal", monthly); err != nil {
		return nil, err
	}

	services := [][]any{{"Serviço", "Quantidade", "Receita (R$)"}}
	for _, s := range w.Services {
		services = append(services, []any{s.Servico, s.Quantidade, s.Receita})
	}
	if err := writeSheet(f, "Top serviços", services); err != nil {
		return nil, err
	}

	clients := [][]any{{"Cliente", "E-mail", "Telefone", "Atendimentos", "Receita (R$)"}}
	for _, c := range w.Clients {
		clients = append(clients, []any{c.Nome, c.Email, c.Telefone, c.Quantidade, c.Receita})
	}
	if err := writeSheet(f, "Top clientes", clients); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (w *Workbook) FileName() string {
	return fmt.Sprintf("relatorio_alpha_clean_%d.xlsx", w.Year)
}

func writeSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}
