package httperr

import "errors"

// BusinessError carrega só o código; mensagem e status HTTP ficam com quem
// responde.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// CodeOf devolve o código de negócio de err, mesmo embrulhado.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// IsBusiness diz se err carrega algum dos códigos informados.
func IsBusiness(err error, codes ...string) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
