package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/BruksfildServices01/alpha-clean/internal/client"
	"github.com/BruksfildServices01/alpha-clean/internal/domain/calendar"
)

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet("alphactl "+name, flag.ContinueOnError)
}

func idArg(fs *flag.FlagSet) (uint, error) {
	if fs.NArg() != 1 {
		return 0, errors.New("informe o id")
	}
	id, err := strconv.ParseUint(fs.Arg(0), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id inválido: %s", fs.Arg(0))
	}
	return uint(id), nil
}

// ------------------------------------------------------
// sessão
// ------------------------------------------------------

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "e-mail")
	senha := fs.String("senha", "", "senha (ou ALPHACTL_SENHA)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *senha == "" {
		*senha = envOr("ALPHACTL_SENHA", "")
	}
	if *email == "" || *senha == "" {
		return errors.New("informe -email e -senha")
	}

	s, err := a.api.Login(ctx, *email, *senha)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Olá, %s (%s)\n", s.Name, s.Role)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sessão encerrada.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", u.Name, u.Email, u.Role)
	return nil
}

// ------------------------------------------------------
// agendamento
// ------------------------------------------------------

func cmdServices(ctx context.Context, a *app, _ []string) error {
	services, err := a.api.Services(ctx, true)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERVIÇO\tPREÇO\tDURAÇÃO")
	for _, s := range services {
		fmt.Fprintf(tw, "%d\t%s\tR$ %.2f\t%d min\n", s.ID, s.Name, s.Price, s.DurationMin)
	}
	return tw.Flush()
}

func cmdSlots(ctx context.Context, a *app, args []string) error {
	fs := newFlags("slots")
	date := fs.String("data", a.clock().Format("2006-01-02"), "data YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	slots, err := client.NewSlotPicker(a.api).Load(ctx, *date)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(a.out, "Sem horários em %s.\n", *date)
		return nil
	}
	for _, s := range slots {
		label := fmt.Sprintf("%d vaga(s)", s.Disponivel)
		if !s.Bookable() {
			label = "Lotado"
		}
		fmt.Fprintf(a.out, "%s  %s\n", s.Horario, label)
	}
	return nil
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := newFlags("book")
	form := client.BookingForm{}
	service := fs.Uint("servico", 0, "id do serviço")
	fs.StringVar(&form.VehicleModel, "modelo", "", "modelo do veículo")
	fs.StringVar(&form.Color, "cor", "", "cor")
	fs.StringVar(&form.Plate, "placa", "", "placa")
	fs.StringVar(&form.Date, "data", "", "data YYYY-MM-DD")
	fs.StringVar(&form.Time, "horario", "", "horário HH:MM")
	fs.StringVar(&form.Notes, "obs", "", "observações")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.ServiceID = *service

	if err := form.Validate(); err != nil {
		return err
	}

	picker := client.NewSlotPicker(a.api)
	if _, err := picker.Load(ctx, form.Date); err != nil {
		return err
	}
	if err := picker.Select(form.Time); err != nil {
		return err
	}

	ap, err := a.api.Book(ctx, form, picker)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Agendamento #%d: %s %s às %s (%s)\n", ap.ID, ap.Service, ap.Date, ap.Time, ap.Plate)
	return nil
}

func cmdAppointments(ctx context.Context, a *app, args []string) error {
	fs := newFlags("appointments")
	status := fs.String("status", "", "agendado|em_andamento|finalizado|cancelado")
	date := fs.String("data", "", "data YYYY-MM-DD")
	page := fs.Int("page", 1, "página")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.api.PricedPage(ctx, client.ListOptions{Page: *page, PageSize: 20, Status: *status, Date: *date})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATA\tHORA\tSERVIÇO\tVEÍCULO\tPLACA\tSTATUS\tVALOR\tCLIENTE")
	for _, ap := range p.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\tR$ %.2f\t%s\n",
			ap.ID, ap.Date, ap.Time, ap.Service, ap.VehicleModel, ap.Plate, ap.Status, ap.Price, ap.Client.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "página %d de %d (%d no total)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func cmdStart(ctx context.Context, a *app, args []string) error {
	fs := newFlags("start")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}
	ap, err := a.api.StartAppointment(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d agora está %s\n", ap.ID, ap.Status)
	return nil
}

func cmdComplete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("complete")
	notes := fs.String("notas", "", "notas de conclusão")
	whats := fs.Bool("whatsapp", true, "avisar o cliente por WhatsApp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	out, err := a.api.CompleteAppointment(ctx, id, *notes, *whats)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d finalizado.\n", out.Appointment.ID)
	switch {
	case out.WhatsappSent:
		fmt.Fprintln(a.out, "Cliente avisado por WhatsApp.")
	case out.WhatsappError != "":
		fmt.Fprintln(a.out, "Aviso: WhatsApp não enviado:", out.WhatsappError)
	}
	return nil
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	fs := newFlags("cancel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}
	if _, err := a.api.CancelAppointment(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d cancelado.\n", id)
	return nil
}

// ------------------------------------------------------
// admin
// ------------------------------------------------------

func cmdCalendar(ctx context.Context, a *app, args []string) error {
	fs := newFlags("calendar")
	month := fs.String("mes", a.clock().Format("2006-01"), "mês YYYY-MM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	grid, err := a.api.MonthGrid(ctx, *month, a.clock())
	if err != nil {
		return err
	}
	renderGrid(a, grid)
	return nil
}

// renderGrid imprime uma semana por linha: dia, total e receita.
func renderGrid(a *app, grid []calendar.DayCell) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "DOM\tSEG\tTER\tQUA\tQUI\tSEX\tSÁB\t")

	var total float64
	for i, cell := range grid {
		label := "  ."
		if cell.IsCurrentMonth {
			label = fmt.Sprintf("%3d", cell.Day)
			if cell.Stats.Total > 0 {
				label += fmt.Sprintf("(%d)", cell.Stats.Total)
			}
			if cell.IsToday {
				label += "*"
			}
			total += cell.Stats.Receita
		}
		fmt.Fprint(tw, label+"\t")
		if i%7 == 6 {
			fmt.Fprintln(tw)
		}
	}
	_ = tw.Flush()
	fmt.Fprintf(a.out, "receita do mês: R$ %.2f\n", total)
}

func cmdDashboard(ctx context.Context, a *app, _ []string) error {
	s, err := a.api.Dashboard(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "agendados\t%d\n", s.Agendados)
	fmt.Fprintf(tw, "em andamento\t%d\n", s.EmAndamento)
	fmt.Fprintf(tw, "finalizados\t%d\n", s.Finalizados)
	fmt.Fprintf(tw, "cancelados\t%d\n", s.Cancelados)
	fmt.Fprintf(tw, "hoje\t%d\n", s.HojeTotal)
	fmt.Fprintf(tw, "receita hoje\tR$ %.2f\n", s.ReceitaHoje)
	fmt.Fprintf(tw, "receita mês\tR$ %.2f\n", s.ReceitaMes)
	fmt.Fprintf(tw, "ticket médio\tR$ %.2f\n", s.TicketMedio)
	if s.ProximoHorario != "" {
		fmt.Fprintf(tw, "próximo\t%s\n", s.ProximoHorario)
	}
	return tw.Flush()
}

func cmdRevenue(ctx context.Context, a *app, args []string) error {
	fs := newFlags("revenue")
	year := fs.Int("ano", a.clock().Year(), "ano")
	if err := fs.Parse(args); err != nil {
		return err
	}

	months, err := a.api.MonthlyRevenue(ctx, *year)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MÊS\tATENDIMENTOS\tRECEITA\t")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%d\tR$ %.2f\t\n", m.Nome, m.Atendimentos, m.Receita)
	}
	return tw.Flush()
}

// ------------------------------------------------------
// carros
// ------------------------------------------------------

func cmdCars(ctx context.Context, a *app, _ []string) error {
	cars, err := a.api.Cars(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODELO\tPLACA\tCOR\tPADRÃO")
	for _, c := range cars {
		mark := ""
		if c.IsDefault {
			mark = "✓"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.VehicleModel, c.Plate, c.Color, mark)
	}
	return tw.Flush()
}

func cmdAddCar(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add-car")
	in := client.CarInput{}
	fs.StringVar(&in.VehicleModel, "modelo", "", "modelo")
	fs.StringVar(&in.Plate, "placa", "", "placa")
	fs.StringVar(&in.Color, "cor", "", "cor")
	fs.StringVar(&in.Brand, "marca", "", "marca")
	year := fs.Int("ano", 0, "ano")
	fs.BoolVar(&in.IsDefault, "padrao", false, "definir como padrão")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *year != 0 {
		in.Year = year
	}

	c, err := a.api.CreateCar(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Carro #%d %s (%s) cadastrado.\n", c.ID, c.VehicleModel, c.Plate)
	return nil
}

func cmdSetDefault(ctx context.Context, a *app, args []string) error {
	fs := newFlags("set-default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := idArg(fs)
	if err != nil {
		return err
	}

	cars, err := a.api.SetDefaultCar(ctx, id)
	if err != nil {
		return err
	}
	for _, c := range cars {
		if c.IsDefault {
			fmt.Fprintf(a.out, "Padrão: %s (%s)\n", c.VehicleModel, strings.ToUpper(c.Plate))
		}
	}
	return nil
}
