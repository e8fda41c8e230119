package client

import (
	"context"
	"errors"
	"sync"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
)

var (
	ErrSlotUnavailable = errors.New("horário não mais disponível")
	ErrUnknownSlot     = errors.New("horário inexistente para a data")
	ErrNoSlotSelected  = errors.New("selecione um horário")
	ErrSlotsNotLoaded  = errors.New("horários ainda não carregados")
	// ErrStaleSlots indica resposta de uma data que já não é a pedida.
	ErrStaleSlots = errors.New("resposta de horários descartada")
)

type PickerState int

const (
	PickerIdle PickerState = iota
	PickerLoading
	PickerLoaded
	PickerErrored
)

func (s PickerState) String() string {
	switch s {
	case PickerLoading:
		return "loading"
	case PickerLoaded:
		return "loaded"
	case PickerErrored:
		return "errored"
	default:
		return "idle"
	}
}

type SlotFetcher interface {
	Slots(ctx context.Context, date string) ([]domain.SlotInfo, error)
}

// SlotPicker guarda os horários da última data consultada e o horário
// escolhido. Só a resposta do pedido mais recente é aplicada.
type SlotPicker struct {
	mu       sync.Mutex
	fetcher  SlotFetcher
	state    PickerState
	date     string
	slots    []domain.SlotInfo
	selected string
	seq      uint64
}

func NewSlotPicker(f SlotFetcher) *SlotPicker {
	return &SlotPicker{fetcher: f}
}

// Load busca os horários da data. Sucesso troca a lista inteira e limpa a
// escolha; falha deixa a lista vazia e devolve o erro para o chamador.
func (p *SlotPicker) Load(ctx context.Context, date string) ([]domain.SlotInfo, error) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.state = PickerLoading
	p.date = date
	p.slots = nil
	p.selected = ""
	p.mu.Unlock()

	slots, err := p.fetcher.Slots(ctx, date)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq {
		return nil, ErrStaleSlots
	}
	if err != nil {
		p.state = PickerErrored
		p.slots = []domain.SlotInfo{}
		return nil, err
	}

	p.state = PickerLoaded
	p.slots = append([]domain.SlotInfo{}, slots...)
	return p.copySlots(), nil
}

func (p *SlotPicker) State() PickerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *SlotPicker) Date() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.date
}

func (p *SlotPicker) Slots() []domain.SlotInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copySlots()
}

func (p *SlotPicker) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Select escolhe um horário da última lista. Horário lotado não é aceito.
func (p *SlotPicker) Select(horario string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != PickerLoaded {
		return ErrSlotsNotLoaded
	}
	slot, ok := domain.FindSlot(p.slots, horario)
	if !ok {
		return ErrUnknownSlot
	}
	if !slot.Bookable() {
		return ErrSlotUnavailable
	}
	p.selected = horario
	return nil
}

// Validate confere, sem rede, se date/horario ainda aparecem com vaga na
// última lista carregada.
func (p *SlotPicker) Validate(date, horario string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if horario == "" {
		return ErrNoSlotSelected
	}
	if p.state != PickerLoaded || p.date != date {
		return ErrSlotsNotLoaded
	}
	slot, ok := domain.FindSlot(p.slots, horario)
	if !ok || !slot.Bookable() {
		return ErrSlotUnavailable
	}
	return nil
}

func (p *SlotPicker) copySlots() []domain.SlotInfo {
	if p.slots == nil {
		return nil
	}
	return append([]domain.SlotInfo{}, p.slots...)
}
