package config

import "fmt"

// Коды выхода процесса. 0 — граф полностью отправлен.
// Всё ≥100 — провал валидации до потребления ресурсов кластера.
const (
	ExitConfig         = 100 // некорректное значение флага
	ExitUnknownEnzyme  = 101 // фермент вне таблицы и нет --site-file
	ExitUnknownStage   = 102 // нераспознанное значение --stage
	ExitBadReadEnd     = 103 // --read-end вне {0,1,2}
	ExitUnknownGenome  = 104 // геном вне реестра и нет явного override
	ExitMissingRef     = 110 // нет референсного файла
	ExitMissingIndex   = 111 // нет индекса выравнивателя
	ExitMissingSites   = 112 // нет файла сайтов рестрикции
	ExitOutputExists   = 113 // output-директория уже существует
	ExitEmptyInput     = 114 // input-директория отсутствует или пуста
	ExitMissingResume  = 115 // нет артефакта, предполагаемого стадией resume
	ExitMissingChroms  = 116 // нет файла размеров хромосом
)

// ConfigError — некорректная конфигурация: неизвестный фермент,
// неизвестная стадия, значение флага вне диапазона. Фатальна до
// какого-либо построения графа.
type ConfigError struct {
	Code    int
	Message string
	Err     error
}

// Error реализует интерфейс error.
func (e *ConfigError) Error() string {
	return "config: " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode возвращает код выхода процесса.
func (e *ConfigError) ExitCode() int {
	return e.Code
}

// NewConfigError создаёт ConfigError с кодом выхода.
func NewConfigError(code int, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// PreflightError — отсутствующий файл или коллизия директорий,
// обнаруженные до первой отправки задачи.
type PreflightError struct {
	Code    int
	Message string
	Err     error
}

// Error реализует интерфейс error.
func (e *PreflightError) Error() string {
	return "preflight: " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *PreflightError) Unwrap() error {
	return e.Err
}

// ExitCode возвращает код выхода процесса.
func (e *PreflightError) ExitCode() int {
	return e.Code
}

// NewPreflightError создаёт PreflightError с кодом выхода.
func NewPreflightError(code int, format string, args ...any) *PreflightError {
	return &PreflightError{Code: code, Message: fmt.Sprintf(format, args...)}
}
