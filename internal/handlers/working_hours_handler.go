package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/alpha-clean/internal/domain/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
)

type WorkingHoursHandler struct {
	db     *gorm.DB
	logger *logging.Logger
}

func NewWorkingHoursHandler(db *gorm.DB, logger *logging.Logger) *WorkingHoursHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WorkingHoursHandler{db: db, logger: logger}
}

type WorkingDayConfig struct {
	Weekday     int    `json:"weekday" binding:"min=0,max=6"`
	Active      bool   `json:"active"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	LunchStart  string `json:"lunch_start"`
	LunchEnd    string `json:"lunch_end"`
	SlotMinutes int    `json:"slot_minutes"`
	Capacity    int    `json:"capacity"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

// Get devolve os 7 dias; dias sem cadastro saem com o expediente padrão.
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, fillWeek(hours))
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	seen := map[int]bool{}
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		wh := models.WorkingHours{
			Weekday:     d.Weekday,
			Active:      d.Active,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			LunchStart:  d.LunchStart,
			LunchEnd:    d.LunchEnd,
			SlotMinutes: d.SlotMinutes,
			Capacity:    d.Capacity,
		}
		if err := validateWorkingDay(&wh); err != nil {
			writeError(c, h.logger, err)
			return
		}
		toCreate = append(toCreate, wh)
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, fillWeek(toCreate))
}

func fillWeek(stored []models.WorkingHours) []models.WorkingHours {
	week := make([]models.WorkingHours, 7)
	for i := range week {
		week[i] = *domain.DefaultWorkingHours(i)
	}
	for _, wh := range stored {
		if wh.Weekday >= 0 && wh.Weekday < 7 {
			week[wh.Weekday] = wh
		}
	}
	return week
}

// validateWorkingDay confere os horários HH:MM e completa intervalo e
// capacidade com os valores padrão.
func validateWorkingDay(wh *models.WorkingHours) error {
	if wh.SlotMinutes <= 0 {
		wh.SlotMinutes = 60
	}
	if wh.Capacity <= 0 {
		wh.Capacity = 2
	}
	if !wh.Active {
		return nil
	}

	start, err1 := time.Parse(domain.TimeLayout, wh.StartTime)
	end, err2 := time.Parse(domain.TimeLayout, wh.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return httperr.ErrBusiness("invalid_working_hours")
	}

	if wh.LunchStart == "" && wh.LunchEnd == "" {
		return nil
	}
	ls, err1 := time.Parse(domain.TimeLayout, wh.LunchStart)
	le, err2 := time.Parse(domain.TimeLayout, wh.LunchEnd)
	if err1 != nil || err2 != nil || !ls.Before(le) || ls.Before(start) || le.After(end) {
		return httperr.ErrBusiness("invalid_working_hours")
	}
	return nil
}
