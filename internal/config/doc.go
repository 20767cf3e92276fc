// Package config превращает CLI-флаги в проверенную конфигурацию запуска.
//
// Включает:
//   - options.go   — Options: сырые значения флагов команды run
//   - resolve.go   — разрешение генома/фермента/стадии → domain.PipelineRun
//   - layout.go    — Layout: контракт директорий и имён файлов запуска
//   - preflight.go — проверки файловой системы до первой отправки
//   - errors.go    — ConfigError / PreflightError и коды выхода (≥100)
//
// Порядок фатальных ошибок: ConfigError — до какого-либо построения
// графа; PreflightError — до первой отправки задачи. Обе печатают
// конкретный диагноз и завершают процесс документированным кодом.
package config
