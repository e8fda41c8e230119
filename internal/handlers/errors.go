package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

type businessMapping struct {
	status  int
	message string
}

// Códigos de negócio conhecidos e como viram HTTP.
var businessErrors = map[string]businessMapping{
	// 400
	"missing_fields":       {http.StatusBadRequest, "Preencha todos os campos obrigatórios."},
	"invalid_plate":        {http.StatusBadRequest, "Placa inválida. Use o formato ABC1234 ou ABC1D23."},
	"invalid_date_or_time": {http.StatusBadRequest, "Data ou horário inválido."},
	"invalid_date":         {http.StatusBadRequest, "Data inválida."},
	"invalid_month":        {http.StatusBadRequest, "Mês inválido. Use AAAA-MM."},
	"invalid_year":         {http.StatusBadRequest, "Ano inválido."},
	"invalid_status":       {http.StatusBadRequest, "Status inválido."},
	"date_in_past":         {http.StatusBadRequest, "Não é possível agendar no passado."},
	"service_inactive":     {http.StatusBadRequest, "Serviço indisponível no momento."},

	"invalid_working_hours": {http.StatusBadRequest, "Horário de funcionamento inválido."},
	"invalid_email":         {http.StatusBadRequest, "O e-mail informado não parece ser válido."},
	"weak_password":         {http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres."},

	// 403
	"forbidden": {http.StatusForbidden, "Você não tem permissão para esta ação."},

	// 404
	"appointment_not_found": {http.StatusNotFound, "Agendamento não encontrado."},
	"service_not_found":     {http.StatusNotFound, "Serviço não encontrado."},
	"car_not_found":         {http.StatusNotFound, "Carro não encontrado."},
	"user_not_found":        {http.StatusNotFound, "Usuário não encontrado."},

	// 409
	"slot_unavailable":     {http.StatusConflict, "Horário não mais disponível. Escolha outro."},
	"invalid_state":        {http.StatusConflict, "O agendamento não permite esta operação."},
	"email_already_exists": {http.StatusConflict, "Já existe uma conta com este e-mail."},
}

// writeError traduz erros de negócio e responde 500 genérico para o resto.
func writeError(c *gin.Context, logger *logging.Logger, err error) {
	if code, ok := httperr.CodeOf(err); ok {
		if m, ok := businessErrors[code]; ok {
			httperr.Write(c, m.status, code, m.message)
			return
		}
		httperr.BadRequest(c, code, "Requisição inválida.")
		return
	}

	if logger != nil {
		logger.Error("request failed",
			"path", c.FullPath(),
			"error", err,
		)
	}
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
}

// bindJSON aplica as tags `binding` do request. Em caso de falha já responde
// 400 com o código do primeiro campo rejeitado.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		invalidRequest(c)
		return false
	}

	writeError(c, nil, httperr.ErrBusiness(bindingCode(verrs[0])))
	return false
}

func bindingCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing_fields"
	case "email":
		return "invalid_email"
	case "min":
		if fe.Field() == "Password" {
			return "weak_password"
		}
	}
	return "invalid_request"
}

// paramID lê :id; responde 400 e devolve false se não for número.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}

func isBusiness(err error) bool {
	_, ok := httperr.CodeOf(err)
	return ok
}
