package errors

// APIError HTTP status taşıyan hata; handler'lar bunu panic değeri olarak da kullanabilir
type APIError interface {
	error
	Status() int
}

// ValidationError request doğrulama hatası
type ValidationError struct {
	Message    string
	StatusCode int
	Field      string
	Value      interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Status() int {
	return e.StatusCode
}
